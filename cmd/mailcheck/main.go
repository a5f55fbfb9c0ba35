package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/vegthaliclub/catering-backend/internal/relay"
	"github.com/vegthaliclub/catering-backend/pkg/config"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
)

// transportChecker is the part of relay.SMTPMailer the check drives.
type transportChecker interface {
	Transports() []relay.Transport
	Verify(ctx context.Context, t relay.Transport) error
	SendVia(ctx context.Context, t relay.Transport, msg relay.Message) error
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "mailcheck"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*cfg.SMTP.Timeout+5*time.Second)
	defer cancel()

	if err := run(ctx, cfg.SMTP, relay.NewSMTPMailer(cfg.SMTP), os.Stdout); err != nil {
		logg.Error(ctx, "mail check failed", err)
		os.Exit(1)
	}
}

// run verifies each transport in order and sends one plain-text test email
// over the first that works.
func run(ctx context.Context, smtp config.SMTPConfig, mailer transportChecker, out io.Writer) error {
	fmt.Fprintf(out, "SMTP user: %s\n", smtp.User)
	fmt.Fprintf(out, "SMTP pass length: %d\n", len(smtp.Password))
	if !smtp.HasCredentials() {
		return relay.ErrMissingCredentials
	}

	msg := relay.Message{
		FromName: smtp.FromName,
		From:     smtp.Sender(),
		To:       []string{smtp.Recipient()},
		Subject:  "SMTP test from catering backend",
		Text:     "This is a test email. If you received it, SMTP delivery works.",
	}

	var errs []error
	for _, t := range mailer.Transports() {
		fmt.Fprintf(out, "Verifying %s\n", t)
		if err := mailer.Verify(ctx, t); err != nil {
			fmt.Fprintf(out, "Verify failed on %s: %v\n", t, err)
			errs = append(errs, err)
			continue
		}
		if err := mailer.SendVia(ctx, t, msg); err != nil {
			fmt.Fprintf(out, "Send failed on %s: %v\n", t, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(out, "Test email sent via %s to %s\n", t, smtp.Recipient())
		return nil
	}
	if len(errs) == 0 {
		return errors.New("no smtp transports configured")
	}
	return errors.Join(errs...)
}
