package groups

import "errors"

var (
	ErrGroupNotFound        = errors.New("group not found")
	ErrGroupCodeNotFound    = errors.New("group code not found")
	ErrAlreadyMember        = errors.New("already a member of this group")
	ErrMemberNotFound       = errors.New("member not found")
	ErrNotMember            = errors.New("not a member of this group")
	ErrNotOwner             = errors.New("not the group owner")
	ErrCannotRemoveOwner    = errors.New("cannot remove the group owner")
	ErrOwnerMustTransfer    = errors.New("owner must transfer ownership or be the last member")
	ErrCodeGenerationFailed = errors.New("join code generation failed")
)
