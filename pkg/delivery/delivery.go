// Package delivery is the boundary for sending OTP codes to the user.
// Delivery failure is a hard stop for the calling flow: no code is considered
// issued until the channel confirms the send.
package delivery

import (
	"context"
	"errors"

	"github.com/facewallet/facewallet/pkg/logging"
	"github.com/facewallet/facewallet/pkg/otp"
)

// ErrSendFailed is returned when the channel could not confirm delivery.
var ErrSendFailed = errors.New("failed to deliver code")

// Channel delivers a one-time code to an email address.
type Channel interface {
	Send(ctx context.Context, toEmail, code string, purpose otp.Purpose) error
}

// LogChannel writes the code to the application log instead of sending it.
// Development only.
type LogChannel struct{}

// Send logs the code.
func (LogChannel) Send(_ context.Context, toEmail, code string, purpose otp.Purpose) error {
	logging.Component("delivery").WithFields(logging.Fields{
		"to":      toEmail,
		"purpose": purpose,
	}).Infof("OTP code: %s", code)
	return nil
}
