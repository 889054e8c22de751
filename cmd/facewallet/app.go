package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/facewallet/facewallet/pkg/camera"
	"github.com/facewallet/facewallet/pkg/delivery"
	"github.com/facewallet/facewallet/pkg/extractor"
	"github.com/facewallet/facewallet/pkg/fallback"
	"github.com/facewallet/facewallet/pkg/identity"
	"github.com/facewallet/facewallet/pkg/otp"
	"github.com/facewallet/facewallet/pkg/template"
)

var stdin = bufio.NewReader(os.Stdin)

func prompt(label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func openIdentityStore() (*identity.FileStore, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return identity.NewFileStore(cfg.IdentitiesDir())
}

func openTemplateStore() (*template.Store, error) {
	return template.NewStore(template.NewKeystore(cfg.Storage.KeyFile))
}

func newOTPStore() otp.Store {
	if cfg.OTP.Store == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return otp.NewRedisStore(client)
	}
	return otp.NewMemoryStore()
}

func newChannel() delivery.Channel {
	if cfg.Delivery.Channel == "smtp" {
		return &delivery.SMTPChannel{
			Addr:     cfg.Delivery.SMTPAddr,
			From:     cfg.Delivery.From,
			Username: cfg.Delivery.Username,
			Password: cfg.Delivery.Password,
		}
	}
	return delivery.LogChannel{}
}

func newFallbackService(ids identity.Store) *fallback.Service {
	issuer := otp.NewIssuer(newOTPStore(), cfg.OTPTTL(), cfg.ResendWait())
	return fallback.NewService(ids, issuer, newChannel())
}

func newExtractor() *extractor.Dlib {
	return extractor.NewDlib(cfg.Capture.ModelPath)
}

func newSource() (camera.Source, error) {
	return camera.NewStillSource(cfg.Capture.FrameDir)
}
