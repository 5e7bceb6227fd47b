// Package mailer delivers account notifications over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/hideout/hideout/internal/config"
	"github.com/hideout/hideout/internal/model"
)

// ErrNoRecipient is returned when an account has no email address on file.
var ErrNoRecipient = errors.New("mailer: account has no email address")

const reengagementSubject = "We miss you at Hideout"

var reengagementText = texttemplate.Must(texttemplate.New("reengagement").Parse(
	`Hi {{.Username}},

It has been a while since you last signed in to Hideout. Your todos,
calendar and budget are right where you left them.

Come take a look: {{.AppURL}}

The Hideout team
`))

var reengagementHTML = htmltemplate.Must(htmltemplate.New("reengagement").Parse(
	`<p>Hi {{.Username}},</p>
<p>It has been a while since you last signed in to <strong>Hideout</strong>.
Your todos, calendar and budget are right where you left them.</p>
<p><a href="{{.AppURL}}">Come take a look</a></p>
<p>The Hideout team</p>
`))

type templateData struct {
	Username string
	AppURL   string
}

func renderReengagement(username, appURL string) (text, html string, err error) {
	data := templateData{Username: username, AppURL: appURL}

	var textBuf bytes.Buffer
	if err := reengagementText.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}

	var htmlBuf bytes.Buffer
	if err := reengagementHTML.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}

	return textBuf.String(), htmlBuf.String(), nil
}

// Mailer sends re-engagement email through a configured SMTP relay.
type Mailer struct {
	client *mail.Client
	from   string
	appURL string
	logger *slog.Logger
}

// New connects the mailer to the SMTP relay described by cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &Mailer{
		client: client,
		from:   cfg.MailFrom,
		appURL: cfg.AppBaseURL,
		logger: logger,
	}, nil
}

// NotifyDormant sends the re-engagement message to a dormant account.
func (m *Mailer) NotifyDormant(ctx context.Context, user *model.User) error {
	if strings.TrimSpace(user.Email) == "" {
		return ErrNoRecipient
	}

	text, html, err := renderReengagement(user.Username, m.appURL)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set sender %q: %w", m.from, err)
	}
	if err := msg.To(user.Email); err != nil {
		return fmt.Errorf("set recipient %q: %w", user.Email, err)
	}
	msg.Subject(reengagementSubject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %q: %w", user.Email, err)
	}

	m.logger.Info("re-engagement mail sent",
		slog.String("user_id", user.ID),
		slog.String("recipient", user.Email),
	)
	return nil
}
