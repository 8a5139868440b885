package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/taqh/notra-sub001/clients"
)

// ResendClient implements clients.EmailClient using the Resend SDK
type ResendClient struct {
	client *resend.Client
}

// NewResendClient creates a new Resend email client
func NewResendClient(apiKey string) clients.EmailClient {
	return &ResendClient{
		client: resend.NewClient(apiKey),
	}
}

// SendEmail sends one transactional email and returns the provider message ID
func (c *ResendClient) SendEmail(ctx context.Context, params clients.SendEmailParams) (string, error) {
	if len(params.To) == 0 {
		return "", fmt.Errorf("recipient list cannot be empty")
	}
	if params.Subject == "" {
		return "", fmt.Errorf("subject cannot be empty")
	}

	sent, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    params.From,
		To:      params.To,
		Subject: params.Subject,
		Html:    params.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return sent.Id, nil
}
