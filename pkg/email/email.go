package email

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendEmail sends a plain text email through the SMTP relay configured in
// the environment. SMTP_PORT defaults to 587 when unset.
func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_SENDER")
	password := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	auth := smtp.PlainAuth("", from, password, smtpHost)

	msg := []byte(fmt.Sprintf("From: Social Circle <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		from, to, subject, body))

	address := smtpHost + ":" + smtpPort

	if err := smtp.SendMail(address, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
