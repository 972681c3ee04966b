package utils

import (
	"log"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

type Mail struct {
	Subject string
	Text    string
	HTML    string
}

// SendNotificationMail delivers a host notification over SMTP. It is called
// fire-and-forget: a missing configuration or a delivery failure must never
// fail the request that triggered it, so errors are logged and swallowed.
func SendNotificationMail(m Mail) {
	to := os.Getenv("MAIL_TO")
	host := os.Getenv("SMTP_HOST")
	if to == "" || host == "" {
		return
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "party-inviter@localhost"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Text)
	if m.HTML != "" {
		msg.AddAlternative("text/html", m.HTML)
	}

	dialer := gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	if err := dialer.DialAndSend(msg); err != nil {
		log.Printf("Unable to send notification email: %v", err)
	}
}
