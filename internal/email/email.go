// Package email sends transactional emails. Production delivery goes
// through Postmark; development writes messages to disk.
package email

import (
	"context"

	"github.com/zulqarnainhdr514/storage-management/internal/validator"
)

// Sender represents an interface for sending emails.
type Sender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks the parameters before handing them to a provider.
func (p SendEmailParams) Validate() error {
	return validator.Apply(
		validator.ValidEmail("send_to", p.SendTo),
		validator.Required("subject", p.Subject),
		validator.Required("body_html", p.BodyHTML),
	)
}

// Config holds email service configuration. The Postmark tokens are
// optional so development environments can run with the dev sender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	DevOutputDir         string `env:"EMAIL_DEV_OUTPUT_DIR" envDefault:"./tmp/emails"`
}
