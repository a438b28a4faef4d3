// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"os"

	"github.com/resendlabs/resend-go"

	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/email/templates"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendReengagementEmail(toEmail, subject, body, ctaURL string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// DryRunClient logs instead of sending. It is the default when no API key is
// configured so local runs never reach a real inbox.
type DryRunClient struct {
	logger *logging.ChanneledLogger
}

// NewService creates an email service client. It returns the dry-run client
// when EMAIL_DRY_RUN is set or no Resend API key is available.
func NewService(logger *logging.ChanneledLogger) (Service, error) {
	if config.EmailDryRun {
		logger.Email().Info("Email service running in dry-run mode")
		return &DryRunClient{logger: logger}, nil
	}

	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@scaler.example.com"
	}

	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Scaler"
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendReengagementEmail composes and sends a follow-up email.
func (c *ResendClient) SendReengagementEmail(toEmail, subject, body, ctaURL string) error {
	content := templates.GetHeading(subject) + templates.GetParagraphs(body)
	if ctaURL != "" {
		content += templates.GetButton(templates.ButtonProps{
			Text: "Claim your discount",
			URL:  ctaURL,
		})
	}

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: subject,
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send re-engagement email via Resend: %w", err)
	}

	return nil
}

// SendReengagementEmail logs the email that would have gone out.
func (c *DryRunClient) SendReengagementEmail(toEmail, subject, body, ctaURL string) error {
	c.logger.Email().Info("Dry-run email",
		"subject", subject,
		"bodyChars", len(body),
		"ctaUrl", ctaURL)
	return nil
}
