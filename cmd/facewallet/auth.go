package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/facewallet/facewallet/pkg/camera"
	"github.com/facewallet/facewallet/pkg/enroll"
	"github.com/facewallet/facewallet/pkg/fallback"
	"github.com/facewallet/facewallet/pkg/identity"
	"github.com/facewallet/facewallet/pkg/match"
	"github.com/facewallet/facewallet/pkg/otp"
	"github.com/facewallet/facewallet/pkg/signin"
	"github.com/facewallet/facewallet/pkg/template"
)

func cmdRegister(args []string) error {
	ctx := context.Background()

	ids, err := openIdentityStore()
	if err != nil {
		return err
	}
	templates, err := openTemplateStore()
	if err != nil {
		return err
	}

	source, err := newSource()
	if err != nil {
		return fmt.Errorf("camera not available: %w", err)
	}
	ext := newExtractor()
	defer func() { _ = ext.Close() }()

	fmt.Println("Position your face in front of the camera.")

	capture := &enroll.Capture{
		Source:       source,
		Extractor:    ext,
		Interval:     cfg.SampleInterval(),
		ProgressStep: cfg.Enrollment.ProgressStep,
		OnProgress: func(state enroll.State, progress int) {
			if state == enroll.StateScanning || state == enroll.StateComplete {
				fmt.Printf("\rScanning... %d%%", progress)
			}
		},
	}
	desc, err := capture.Run(ctx)
	if err != nil {
		if errors.Is(err, camera.ErrUnavailable) {
			fmt.Println("Camera not available. Registration requires a working camera.")
		}
		return err
	}
	fmt.Println("\nFace captured.")

	fullName, err := prompt("Full name")
	if err != nil {
		return err
	}
	email, err := prompt("Email")
	if err != nil {
		return err
	}
	phone, err := prompt("Phone")
	if err != nil {
		return err
	}
	password, err := prompt("Password")
	if err != nil {
		return err
	}

	id, err := identity.New(identity.Registration{
		FullName: fullName,
		Email:    email,
		Phone:    phone,
		Password: password,
	})
	if err != nil {
		return err
	}

	blob, err := templates.Encrypt(desc)
	if err != nil {
		return fmt.Errorf("failed to encrypt template: %w", err)
	}
	id.FaceData = identity.EncryptedTemplate(blob)

	if err := ids.Create(ctx, id); err != nil {
		if errors.Is(err, identity.ErrExists) {
			return fmt.Errorf("an account with email %s already exists", email)
		}
		return err
	}

	fmt.Printf("Welcome %s! Your wallet is ready.\n", id.FullName)
	return nil
}

func cmdLogin(args []string) error {
	ctx := context.Background()

	ids, err := openIdentityStore()
	if err != nil {
		return err
	}
	templates, err := openTemplateStore()
	if err != nil {
		return err
	}
	fb := newFallbackService(ids)

	id, err := faceLogin(ctx, ids, templates, fb)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s (%s). Balance: %s\n", id.FullName, id.Email, formatAmount(id.Balance))
	return nil
}

// faceLogin runs scan cycles until success, then falls back to password+OTP
// after the retry limit.
func faceLogin(ctx context.Context, ids identity.Store, templates *template.Store, fb *fallback.Service) (identity.Identity, error) {
	source, err := newSource()
	if err != nil {
		fmt.Println("Camera not available. Switching to password login.")
		return passwordLogin(ctx, fb)
	}
	ext := newExtractor()
	defer func() { _ = ext.Close() }()

	engine := match.NewEngine(cfg.Matching.Threshold)
	session := signin.NewSession(engine, cfg.Auth.MaxFailures, cfg.Auth.RetryLimit)
	runner := &signin.Runner{
		Loader:      signin.NewLoader(ids, templates),
		Source:      source,
		Extractor:   ext,
		Interval:    cfg.SampleInterval(),
		SettleDelay: cfg.SettleDelay(),
	}

	for {
		fmt.Println("Scanning...")
		result, err := runner.Scan(ctx, session)
		if err != nil {
			if errors.Is(err, camera.ErrUnavailable) {
				fmt.Println("Camera not available. Switching to password login.")
				return passwordLogin(ctx, fb)
			}
			return identity.Identity{}, err
		}

		if result.State == signin.StateSuccess {
			return ids.FindByEmail(ctx, result.MatchedEmail)
		}

		// Scan cycle failed.
		if session.ShouldFallback() {
			fmt.Println("Face not recognized. Switching to password login.")
			return passwordLogin(ctx, fb)
		}

		answer, err := prompt("Face not recognized. Retry scan? [Y/n]")
		if err != nil {
			return identity.Identity{}, err
		}
		if strings.EqualFold(answer, "n") {
			return passwordLogin(ctx, fb)
		}
	}
}

func passwordLogin(ctx context.Context, fb *fallback.Service) (identity.Identity, error) {
	email, err := prompt("Email")
	if err != nil {
		return identity.Identity{}, err
	}
	password, err := prompt("Password")
	if err != nil {
		return identity.Identity{}, err
	}

	if _, err := fb.Login(ctx, email, password); err != nil {
		return identity.Identity{}, err
	}
	fmt.Println("A verification code has been sent to your email.")

	return completeWithCode(ctx, fb, otp.PurposeLogin, email, func(code string) (identity.Identity, error) {
		return fb.CompleteLogin(ctx, email, code)
	})
}

// completeWithCode prompts for a code, supporting resend, until verification
// succeeds or a hard error occurs.
func completeWithCode(ctx context.Context, fb *fallback.Service, purpose otp.Purpose, email string, verify func(code string) (identity.Identity, error)) (identity.Identity, error) {
	for {
		code, err := prompt("Enter the 6-digit code (or 'resend')")
		if err != nil {
			return identity.Identity{}, err
		}

		if strings.EqualFold(code, "resend") {
			if _, err := fb.Resend(ctx, purpose, email); err != nil {
				if errors.Is(err, otp.ErrResendWait) {
					fmt.Println("Please wait before requesting another code.")
					continue
				}
				return identity.Identity{}, err
			}
			fmt.Println("A new code has been sent. The previous code is no longer valid.")
			continue
		}

		id, err := verify(code)
		switch {
		case err == nil:
			return id, nil
		case errors.Is(err, otp.ErrMismatch):
			fmt.Println("Incorrect code. Please try again.")
		case errors.Is(err, otp.ErrExpired), errors.Is(err, otp.ErrNoChallenge):
			fmt.Println("The code has expired. Type 'resend' to request a new one.")
		default:
			return identity.Identity{}, err
		}
	}
}

func cmdResetPassword(args []string) error {
	ctx := context.Background()

	ids, err := openIdentityStore()
	if err != nil {
		return err
	}
	fb := newFallbackService(ids)

	email, err := prompt("Email")
	if err != nil {
		return err
	}

	if _, err := fb.StartReset(ctx, email); err != nil {
		return err
	}
	fmt.Println("A reset code has been sent to your email.")

	_, err = completeWithCode(ctx, fb, otp.PurposeReset, email, func(code string) (identity.Identity, error) {
		newPassword, perr := prompt("New password")
		if perr != nil {
			return identity.Identity{}, perr
		}
		if perr := fb.ConfirmReset(ctx, email, code, newPassword); perr != nil {
			return identity.Identity{}, perr
		}
		return identity.Identity{}, nil
	})
	if err != nil {
		return err
	}

	fmt.Println("Password reset successfully. You can now log in with your new password.")
	return nil
}
