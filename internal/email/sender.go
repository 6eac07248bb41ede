package email

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"
)

const ResetPasswordSubject = "Redefinição de senha"

// Message is a single outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers email. Implementations must be safe for concurrent use.
type Sender interface {
	SendEmail(ctx context.Context, msg Message) error
}

// LogSender writes messages to the global logger instead of delivering them.
// Used by the CLI tools and local development. Bodies carry reset tokens, so
// they are only logged at debug level and only when showBody is set.
type LogSender struct {
	showBody bool
}

func NewLogSender(showBody bool) *LogSender {
	return &LogSender{showBody: showBody}
}

func (s *LogSender) SendEmail(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("email recipient is required")
	}

	zap.L().Info("Sending email",
		zap.String("from", msg.From),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)))

	if s.showBody {
		zap.L().Debug("Email body",
			zap.String("to", msg.To),
			zap.String("body", msg.Body))
	}
	return nil
}

var resetPasswordTemplate = template.Must(template.New("reset_password").Parse(
	`Olá{{if .Name}}, {{.Name}}{{end}}!

Recebemos uma solicitação para redefinir a sua senha.
Use o link abaixo em até {{.ExpiresInMinutes}} minutos:

{{.Link}}

Se você não fez essa solicitação, ignore este email.
`))

type resetPasswordData struct {
	Name             string
	Link             string
	ExpiresInMinutes int
}

// ResetPasswordBody renders the reset email carrying the raw token in the link.
func ResetPasswordBody(name, resetURL, token string, expiresInMinutes int) (string, error) {
	link := resetURL
	if strings.Contains(link, "?") {
		link += "&token=" + token
	} else {
		link += "?token=" + token
	}

	var buf bytes.Buffer
	data := resetPasswordData{Name: name, Link: link, ExpiresInMinutes: expiresInMinutes}
	if err := resetPasswordTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render reset password email: %w", err)
	}
	return buf.String(), nil
}
