// Package fallback implements the secondary authentication path: password
// verification followed by a time-boxed one-time code, plus password reset.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/facewallet/facewallet/pkg/delivery"
	"github.com/facewallet/facewallet/pkg/identity"
	"github.com/facewallet/facewallet/pkg/logging"
	"github.com/facewallet/facewallet/pkg/otp"
)

// ErrInvalidCredentials covers both unknown email and wrong password, so a
// caller cannot enumerate accounts from the error.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrDeliveryFailed means the code could not be delivered; no code is
// considered issued and the user should retry.
var ErrDeliveryFailed = errors.New("could not deliver the code")

// ErrUnknownEmail is returned by password reset when no account matches.
var ErrUnknownEmail = errors.New("no account found with this email")

// dummyHash is compared against when the email is unknown, so the timing of
// the unknown-email and wrong-password paths is indistinguishable.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("facewallet-dummy"), bcrypt.DefaultCost)

// Service drives the password+OTP flow against the identity store.
type Service struct {
	ids     identity.Store
	issuer  *otp.Issuer
	channel delivery.Channel
}

// NewService wires the fallback flow.
func NewService(ids identity.Store, issuer *otp.Issuer, channel delivery.Channel) *Service {
	return &Service{ids: ids, issuer: issuer, channel: channel}
}

// Login verifies email+password and, on success, issues and delivers a login
// code. The returned challenge's resend countdown starts at issuance.
func (s *Service) Login(ctx context.Context, email, password string) (otp.Challenge, error) {
	id, err := s.ids.FindByEmail(ctx, email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return otp.Challenge{}, ErrInvalidCredentials
	}
	if !id.CheckPassword(password) {
		return otp.Challenge{}, ErrInvalidCredentials
	}

	return s.issueAndSend(ctx, otp.PurposeLogin, id.Email)
}

// CompleteLogin verifies the entered code and returns the signed-in identity.
// A correct code works exactly once; a mismatch leaves the code live.
func (s *Service) CompleteLogin(ctx context.Context, email, code string) (identity.Identity, error) {
	if err := s.issuer.Verify(ctx, otp.PurposeLogin, email, code); err != nil {
		return identity.Identity{}, err
	}
	return s.ids.FindByEmail(ctx, email)
}

// Resend replaces the live code for the flow once the countdown has elapsed.
// The prior code stops verifying immediately.
func (s *Service) Resend(ctx context.Context, purpose otp.Purpose, email string) (otp.Challenge, error) {
	return s.issueAndSend(ctx, purpose, email)
}

// StartReset begins the forgot-password flow by issuing a reset code.
func (s *Service) StartReset(ctx context.Context, email string) (otp.Challenge, error) {
	id, err := s.ids.FindByEmail(ctx, email)
	if err != nil {
		return otp.Challenge{}, ErrUnknownEmail
	}
	return s.issueAndSend(ctx, otp.PurposeReset, id.Email)
}

// ConfirmReset verifies the reset code and installs the new password,
// terminating the reset flow.
func (s *Service) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	if err := s.issuer.Verify(ctx, otp.PurposeReset, email, code); err != nil {
		return err
	}

	id, err := s.ids.FindByEmail(ctx, email)
	if err != nil {
		return ErrUnknownEmail
	}
	if err := id.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	if err := s.ids.Update(ctx, id); err != nil {
		return fmt.Errorf("failed to persist password: %w", err)
	}

	logging.Component("fallback").Infof("Password reset completed for %s", email)
	return nil
}

func (s *Service) issueAndSend(ctx context.Context, purpose otp.Purpose, email string) (otp.Challenge, error) {
	ch, err := s.issuer.Issue(ctx, purpose, email)
	if err != nil {
		return otp.Challenge{}, err
	}

	if err := s.channel.Send(ctx, email, ch.Code, purpose); err != nil {
		// A code the user never received must not verify later.
		_ = s.issuer.Withdraw(ctx, purpose, email)
		logging.Component("fallback").WithError(err).Warnf("Code delivery failed for %s", email)
		return otp.Challenge{}, ErrDeliveryFailed
	}
	return ch, nil
}
