package groups

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateGroup(ctx context.Context, group *Group) error
	GetGroupByID(ctx context.Context, groupID string) (*Group, error)
	GetGroupByCode(ctx context.Context, code string) (*Group, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]Group, error)
	UpdateGroupName(ctx context.Context, groupID, name string) error
	DeleteGroup(ctx context.Context, groupID string) error
	AddMember(ctx context.Context, member *GroupMember) error
	GetMember(ctx context.Context, groupID, userID string) (*GroupMember, error)
	ListMembers(ctx context.Context, groupID string) ([]GroupMember, error)
	DeleteMember(ctx context.Context, groupID, userID string) error
	DeleteMembersByGroup(ctx context.Context, groupID string) error
	CountMembers(ctx context.Context, groupID string) (int64, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
}

// UserLookup maps identities to registered accounts. Unknown identities
// surface as the user domain's not-found error.
type UserLookup interface {
	IDByEmail(ctx context.Context, email string) (string, error)
}
