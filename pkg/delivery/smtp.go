package delivery

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/facewallet/facewallet/pkg/otp"
)

// SMTPChannel delivers codes over plain SMTP with optional auth.
type SMTPChannel struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

func purposeSubject(purpose otp.Purpose) string {
	if purpose == otp.PurposeReset {
		return "FaceWallet password reset code"
	}
	return "FaceWallet login code"
}

// Send emails the code. Any transport error is wrapped as ErrSendFailed so
// callers treat it as "no code issued".
func (c *SMTPChannel) Send(_ context.Context, toEmail, code string, purpose otp.Purpose) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\nYour verification code is %s.\r\n",
		c.From, toEmail, purposeSubject(purpose), code)

	var auth smtp.Auth
	if c.Username != "" {
		host, _, _ := strings.Cut(c.Addr, ":")
		auth = smtp.PlainAuth("", c.Username, c.Password, host)
	}

	if err := smtp.SendMail(c.Addr, auth, c.From, []string{toEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}
