package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Config carries the outbound mail settings, explicitly constructed at
// startup and injected; never read from ambient state.
type Config struct {
	APIKey    string
	FromName  string
	FromEmail string
	AppName   string
}

// Dispatcher sends transactional mail.
type Dispatcher interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error
}

// SendgridDispatcher delivers mail through the SendGrid v3 API.
type SendgridDispatcher struct {
	client *sendgrid.Client
	from   *sgmail.Email
	prefix string
	logger *zap.Logger
}

// NewSendgridDispatcher constructs a dispatcher from config.
func NewSendgridDispatcher(cfg Config, logger *zap.Logger) *SendgridDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendgridDispatcher{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		prefix: "[" + cfg.AppName + "] ",
		logger: logger,
	}
}

// SendPasswordReset delivers the reset-link notification.
func (d *SendgridDispatcher) SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error {
	subject := d.prefix + "Password reset"
	plain := fmt.Sprintf("Hello %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s\n\nIf you did not request this, ignore this message.", toName, resetLink)
	html := fmt.Sprintf(`<p>Hello %s,</p><p>A password reset was requested for your account. <a href="%s">Choose a new password</a>.</p><p>If you did not request this, ignore this message.</p>`, toName, resetLink)

	message := sgmail.NewSingleEmail(d.from, subject, sgmail.NewEmail(toName, toEmail), plain, html)
	resp, err := d.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send reset mail: sendgrid status %d", resp.StatusCode)
	}
	d.logger.Debug("reset mail dispatched", zap.String("to", toEmail))
	return nil
}

// NopDispatcher drops mail; used in development and tests.
type NopDispatcher struct{}

// SendPasswordReset implements Dispatcher.
func (NopDispatcher) SendPasswordReset(context.Context, string, string, string) error {
	return nil
}
