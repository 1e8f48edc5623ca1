package mailer

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/nik/article-hub/internal/config"
	mail "github.com/wneessen/go-mail"
)

const confirmationTemplate = `<html>
<body>
  <p>Thanks for registering. Confirm your account by following the link below:</p>
  <p><a href="{{.ConfirmationLink}}">{{.ConfirmationLink}}</a></p>
  <p>If you did not register, ignore this message.</p>
</body>
</html>`

var confirmationBody = template.Must(template.New("confirmation").Parse(confirmationTemplate))

// Mailer sends account-confirmation mail over SMTP. Callers treat sends as
// fire-and-forget; a failed send never fails the request that triggered it.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	baseURL  string
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		baseURL:  cfg.PublicBaseURL,
	}
}

func (m *Mailer) SendConfirmation(token, address string) error {
	link := fmt.Sprintf("%s/users/confirm/%s", strings.TrimRight(m.baseURL, "/"), token)

	var body strings.Builder
	if err := confirmationBody.Execute(&body, struct{ ConfirmationLink string }{link}); err != nil {
		return fmt.Errorf("render confirmation mail: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(address); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject("Confirm your account")
	msg.SetBodyString(mail.TypeTextHTML, body.String())

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	return client.DialAndSend(msg)
}
