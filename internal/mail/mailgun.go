package mail

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunMailer はMailgun経由で認証メールを送る
type MailgunMailer struct {
	mg     *mailgun.MailgunImpl
	domain string
}

func NewMailgunMailer(domain string, apiKey string) *MailgunMailer {
	return &MailgunMailer{
		mg:     mailgun.NewMailgun(domain, apiKey),
		domain: domain,
	}
}

func (m *MailgunMailer) SendVerification(ctx context.Context, email string, code string) error {
	msg := m.mg.NewMessage(
		fmt.Sprintf("Eats <postmaster@%s>", m.domain),
		"Verify Your Email",
		"",
		email,
	)
	msg.SetTemplate("verify-email")
	if err := msg.AddTemplateVariable("code", code); err != nil {
		return err
	}
	if err := msg.AddTemplateVariable("username", email); err != nil {
		return err
	}

	_, _, err := m.mg.Send(ctx, msg)
	return err
}

// ローカル等、MAILGUN_DOMAIN未設定のときに使う
type NoopMailer struct{}

func (NoopMailer) SendVerification(ctx context.Context, email string, code string) error {
	return nil
}
