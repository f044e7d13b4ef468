package mail

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

const verificationSubject = "Email Verification - Elrond"

// sender is the part of *gomail.Dialer the notifier needs.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier sends plain-text verification emails.
type SMTPNotifier struct {
	dialer  sender
	from    string
	linkTTL time.Duration
}

func NewSMTPNotifier(dialer sender, from string, linkTTL time.Duration) *SMTPNotifier {
	return &SMTPNotifier{dialer: dialer, from: from, linkTTL: linkTTL}
}

// Deliver sends the message and gives up when ctx is done. gomail has no
// context support, so an abandoned send finishes in the background.
func (n *SMTPNotifier) Deliver(ctx context.Context, emailAddress, verificationLink string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", emailAddress)
	m.SetHeader("Subject", verificationSubject)
	m.SetBody("text/plain", verificationBody(verificationLink, n.linkTTL))

	done := make(chan error, 1)
	go func() {
		done <- n.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send verification email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send verification email: %w", ctx.Err())
	}
}

func verificationBody(link string, ttl time.Duration) string {
	return "Welcome to Elrond!\n\n" +
		"Please click the link below to verify your email address:\n" +
		link + "\n\n" +
		"This link will expire in " + humanize(ttl) + ".\n\n" +
		"If you didn't create an account, please ignore this email."
}

func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		if d == time.Minute {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", d/time.Minute)
	default:
		return d.String()
	}
}
