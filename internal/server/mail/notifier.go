// Package mail delivers email verification links. SMTP delivery goes through
// gopkg.in/gomail.v2; with no SMTP host configured the link is only logged.
package mail

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/UdayKhare09/Elrond/internal/common"
	"github.com/UdayKhare09/Elrond/internal/logging"
	"gopkg.in/gomail.v2"
)

// Notifier delivers a verification link to an email address.
type Notifier interface {
	Deliver(ctx context.Context, emailAddress, verificationLink string) error
}

// BuildVerificationLink returns the public URL that confirms token.
func BuildVerificationLink(appURL, token string) string {
	return strings.TrimRight(appURL, "/") + common.VerifyEmailPath + "?token=" + url.QueryEscape(token)
}

// LogNotifier stands in for SMTP in development: it logs the link and
// always succeeds.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Deliver(ctx context.Context, emailAddress, verificationLink string) error {
	n.log.Info(ctx, "verification email not sent, mail disabled", "to", emailAddress, "link", verificationLink)
	return nil
}

// Options configures New.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// LinkTTL is quoted in the message body.
	LinkTTL time.Duration
}

// New returns an SMTP notifier, or a LogNotifier when opts.Host is empty.
func New(opts Options, log logging.Logger) Notifier {
	if opts.Host == "" {
		log.Info(context.Background(), "Mail: DISABLED")
		return NewLogNotifier(log)
	}
	log.Info(context.Background(), "Mail: enabled", "host", opts.Host, "port", opts.Port, "from", opts.From)
	return NewSMTPNotifier(gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password), opts.From, opts.LinkTTL)
}
