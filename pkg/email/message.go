package email

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type envelope struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
	Date    time.Time
}

// contactSubject embeds the submitter's name in the notification subject.
func contactSubject(name string) string {
	return fmt.Sprintf("Nuovo messaggio di contatto da %s", name)
}

// composeMessage builds a multipart/alternative message (plaintext first, HTML alternative).
func composeMessage(env envelope) ([]byte, error) {
	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	msg.SetHeader("From", env.From)
	msg.SetHeader("To", env.To)
	msg.SetHeader("Reply-To", env.ReplyTo)
	msg.SetHeader("Subject", env.Subject)
	msg.SetDateHeader("Date", env.Date)
	msg.SetBody("text/plain", env.Text)
	msg.AddAlternative("text/html", env.HTML)

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return buf.Bytes(), nil
}
