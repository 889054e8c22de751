// Package otp implements the one-time-passcode second factor: code
// generation, a single live challenge per flow, time-boxed verification, and
// resend gating.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Purpose identifies which flow a challenge belongs to.
type Purpose string

const (
	// PurposeLogin gates the password+OTP sign-in.
	PurposeLogin Purpose = "login"
	// PurposeReset gates the forgot-password flow.
	PurposeReset Purpose = "password-reset"
)

// Digits is the code length.
const Digits = 6

// Challenge is the ephemeral OTP state for one in-progress flow. Exactly one
// challenge is live per (purpose, email); issuing again replaces it.
type Challenge struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	Purpose   Purpose   `json:"purpose"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrNoChallenge is returned when no live challenge exists for the flow.
var ErrNoChallenge = errors.New("no active challenge")

// ErrExpired is returned when the challenge's window has passed.
var ErrExpired = errors.New("challenge expired")

// ErrMismatch is returned when the entered code differs from the issued one.
// The live code stays valid.
var ErrMismatch = errors.New("code mismatch")

// ErrResendWait is returned when a resend is requested before the countdown
// has elapsed.
var ErrResendWait = errors.New("resend not yet permitted")

// Store holds the live challenge per (purpose, email).
type Store interface {
	Put(ctx context.Context, ch Challenge, ttl time.Duration) error
	Get(ctx context.Context, purpose Purpose, email string) (Challenge, error)
	Delete(ctx context.Context, purpose Purpose, email string) error
}

// GenerateCode draws a uniformly random zero-padded decimal code.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < Digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", Digits, n), nil
}

// Issuer creates and verifies challenges against a Store.
type Issuer struct {
	store      Store
	ttl        time.Duration
	resendWait time.Duration
	now        func() time.Time
}

// NewIssuer builds an issuer. ttl bounds how long a code verifies;
// resendWait is the countdown before a replacement code may be issued.
func NewIssuer(store Store, ttl, resendWait time.Duration) *Issuer {
	return &Issuer{store: store, ttl: ttl, resendWait: resendWait, now: time.Now}
}

// Issue creates a fresh challenge, replacing and thereby invalidating any
// prior code for the same flow. A resend inside the countdown window is
// rejected with ErrResendWait and leaves the prior code live.
func (i *Issuer) Issue(ctx context.Context, purpose Purpose, email string) (Challenge, error) {
	if prev, err := i.store.Get(ctx, purpose, email); err == nil {
		if i.now().Before(prev.IssuedAt.Add(i.resendWait)) {
			return Challenge{}, ErrResendWait
		}
	}

	code, err := GenerateCode()
	if err != nil {
		return Challenge{}, err
	}

	now := i.now().UTC()
	ch := Challenge{
		Code:      code,
		Email:     email,
		Purpose:   purpose,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
	}
	if err := i.store.Put(ctx, ch, i.ttl); err != nil {
		return Challenge{}, fmt.Errorf("failed to store challenge: %w", err)
	}
	return ch, nil
}

// Verify compares the entered code against the live challenge. Success
// consumes the challenge, so a code verifies exactly once per issuance. A
// mismatch leaves the live code intact.
func (i *Issuer) Verify(ctx context.Context, purpose Purpose, email, code string) error {
	ch, err := i.store.Get(ctx, purpose, email)
	if err != nil {
		return err
	}

	if i.now().After(ch.ExpiresAt) {
		_ = i.store.Delete(ctx, purpose, email)
		return ErrExpired
	}
	if ch.Code != code {
		return ErrMismatch
	}

	if err := i.store.Delete(ctx, purpose, email); err != nil {
		return fmt.Errorf("failed to consume challenge: %w", err)
	}
	return nil
}

// Withdraw discards the live challenge for a flow, typically because the
// code never reached the user. Withdrawing a non-existent challenge is not
// an error.
func (i *Issuer) Withdraw(ctx context.Context, purpose Purpose, email string) error {
	return i.store.Delete(ctx, purpose, email)
}
