package services

import (
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// MailSender is the outbound email collaborator: a single send operation,
// failure surfaced to the caller.
type MailSender interface {
	Send(to, subject, body string) error
}

type Mailer struct {
	from string
}

func NewMailer() *Mailer {
	return &Mailer{from: viper.GetString("mailer.from")}
}

func (v *Mailer) Send(to, subject, body string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", v.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	dialer := gomail.NewDialer(
		viper.GetString("mailer.smtp_host"),
		viper.GetInt("mailer.smtp_port"),
		viper.GetString("mailer.username"),
		viper.GetString("mailer.password"),
	)

	return dialer.DialAndSend(message)
}
