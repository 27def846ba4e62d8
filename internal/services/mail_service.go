package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"lireddit/internal/config"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var mailTemplates embed.FS

type MailService struct {
	cfg       config.MailConfig
	Enabled   bool
	logLinks  bool
	templates *template.Template
	log       *zap.Logger
}

func NewMailService(cfg *config.Config, log *zap.Logger) *MailService {
	enabled := cfg.IsMailConfigured()
	if !enabled {
		log.Warn("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		cfg:       cfg.Mail,
		Enabled:   enabled,
		logLinks:  !cfg.IsProduction(),
		templates: template.Must(template.ParseFS(mailTemplates, "templates/*.html")),
		log:       log,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	go func() {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: lireddit <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.cfg.From, subject, mime, body))

		if err := smtp.SendMail(addr, auth, s.cfg.From, to, msg); err != nil {
			s.log.Error("Failed to send email", zap.Strings("to", to), zap.Error(err))
			return
		}
		s.log.Info("Email sent", zap.Strings("to", to), zap.String("subject", subject))
	}()
}

func (s *MailService) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// SendPasswordResetEmail mails the reset link. Without SMTP, development builds log the link instead.
func (s *MailService) SendPasswordResetEmail(email, link string) {
	if !s.Enabled {
		if s.logLinks {
			s.log.Info("Password reset link (mail disabled)", zap.String("to", email), zap.String("link", link))
		}
		return
	}

	body, err := s.render("reset.html", map[string]string{"Link": link})
	if err != nil {
		s.log.Error("Error rendering reset email", zap.Error(err))
		return
	}
	s.sendAsync([]string{email}, "Reset your lireddit password", body)
}
