package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// EmailClient sends notifications through a JSON email-delivery API
// (Resend-compatible: POST /emails with a bearer key).
type EmailClient struct {
	baseURL     string
	apiKey      string
	senderName  string
	senderEmail string
	client      *http.Client
}

func NewEmailClient(baseURL, apiKey, senderName, senderEmail string, timeout time.Duration) *EmailClient {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &EmailClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		senderName:  senderName,
		senderEmail: senderEmail,
		client:      &http.Client{Timeout: timeout},
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (c *EmailClient) Send(ctx context.Context, msg Message) Outcome {
	if c.apiKey == "" {
		return Skipped()
	}

	subject, text := renderTemplate(msg)
	payload := emailRequest{
		From:    fmt.Sprintf("%s <%s>", c.senderName, c.senderEmail),
		To:      []string{msg.RecipientEmail},
		Subject: subject,
		Text:    text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Failed(fmt.Errorf("encode email: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return Failed(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Failed(fmt.Errorf("send email: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failed(fmt.Errorf("email api returned status %d", resp.StatusCode))
	}

	return Delivered()
}

func renderTemplate(msg Message) (subject, text string) {
	name := msg.RecipientName
	if name == "" {
		name = msg.RecipientEmail
	}

	switch msg.Kind {
	case KindExpenseAssigned:
		subject = fmt.Sprintf("%s added you to \"%s\"", msg.SenderName, msg.ExpenseTitle)
		text = fmt.Sprintf("Hi %s,\n\n%s added you to the shared expense \"%s\". Your share is %.2f.\n",
			name, msg.SenderName, msg.ExpenseTitle, msg.Amount)
	case KindSettlementConfirmed:
		subject = fmt.Sprintf("Payment of %.2f confirmed", msg.Amount)
		text = fmt.Sprintf("Hi %s,\n\n%s confirmed your payment of %.2f for \"%s\". You're settled up.\n",
			name, msg.SenderName, msg.Amount, msg.ExpenseTitle)
	default:
		subject = "Splitledger notification"
		text = fmt.Sprintf("Hi %s,\n\nYou have a new notification.\n", name)
	}
	return subject, text
}
