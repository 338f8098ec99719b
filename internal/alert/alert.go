// Package alert delivers operator notifications over SMTP when the
// agent restarts the monitored service. Delivery is best-effort: every
// failure is logged and reported as a boolean, never as an error.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/leefowlercu/vpnwatch/internal/probe"
)

// Transport security modes for the SMTP session.
const (
	SecurityNone     = "none"
	SecurityStartTLS = "starttls"
	SecurityImplicit = "implicit"
)

// Options configures the SMTP dispatcher.
type Options struct {
	Enabled  bool
	From     string
	To       []string
	Host     string
	Port     int
	Security string
	Username string
	Password string
	Timeout  time.Duration
}

// Notification describes one completed remediation.
type Notification struct {
	Unit        string
	Hostname    string
	Timestamp   time.Time
	Fingerprint probe.Fingerprint
	Record      string
	RestartCode int
	CycleID     string
}

// Mailer dispatches notifications over SMTP.
type Mailer struct {
	opts Options
}

// New creates a Mailer with the given options.
func New(opts Options) *Mailer {
	return &Mailer{opts: opts}
}

// Notify composes and sends the remediation alert. It reports whether
// the message was handed to the SMTP server.
func (m *Mailer) Notify(ctx context.Context, n Notification) bool {
	return m.Send(ctx, Subject(n), Body(n))
}

// Send delivers one message to the configured recipients. Disabled
// dispatch and an empty recipient list are quiet no-ops. When delivery
// with credentials fails, Send retries once without authentication;
// getting the alert out matters more than strict auth compliance.
func (m *Mailer) Send(ctx context.Context, subject, body string) bool {
	if !m.opts.Enabled {
		slog.Debug("alerting disabled; skipping notification")
		return false
	}

	recipients := Recipients(m.opts.To)
	if len(recipients) == 0 {
		slog.Warn("alerting enabled but no recipients configured; skipping notification")
		return false
	}

	msg := mail.NewMsg()
	if err := msg.From(m.opts.From); err != nil {
		slog.Warn("invalid alert sender address", "from", m.opts.From, "error", err)
		return false
	}
	if err := msg.To(recipients...); err != nil {
		slog.Warn("invalid alert recipient address", "to", recipients, "error", err)
		return false
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.deliver(ctx, msg, true); err != nil {
		if !m.hasCredentials() {
			slog.Warn("failed to send alert", "host", m.opts.Host, "error", err)
			return false
		}

		slog.Debug("authenticated alert delivery failed; retrying without credentials", "host", m.opts.Host, "error", err)
		if err := m.deliver(ctx, msg, false); err != nil {
			slog.Warn("failed to send alert", "host", m.opts.Host, "error", err)
			return false
		}
	}

	slog.Info("alert sent", "host", m.opts.Host, "recipients", len(recipients))
	return true
}

// deliver performs one SMTP session. Credentials are only presented
// when withAuth is set and the options carry a username.
func (m *Mailer) deliver(ctx context.Context, msg *mail.Msg, withAuth bool) error {
	opts := []mail.Option{
		mail.WithPort(m.opts.Port),
	}

	if m.opts.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.opts.Timeout))
	}

	switch m.opts.Security {
	case SecurityImplicit:
		opts = append(opts, mail.WithSSL())
	case SecurityStartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if withAuth && m.hasCredentials() {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.opts.Username),
			mail.WithPassword(m.opts.Password),
		)
	}

	client, err := mail.NewClient(m.opts.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client; %w", err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}

func (m *Mailer) hasCredentials() bool {
	return m.opts.Username != ""
}

// Recipients normalizes the configured To addresses: entries are split
// on commas, trimmed, and blanks dropped.
func Recipients(values []string) []string {
	var out []string
	for _, value := range values {
		for _, addr := range strings.Split(value, ",") {
			addr = strings.TrimSpace(addr)
			if addr != "" {
				out = append(out, addr)
			}
		}
	}
	return out
}

// Subject renders the alert subject line for a notification.
func Subject(n Notification) string {
	host := n.Hostname
	if host == "" {
		host = "unknown-host"
	}
	return fmt.Sprintf("vpnwatch: restarted %s on %s", n.Unit, host)
}

// Body renders the alert body: a short summary, the diagnostic record,
// and the cycle ID for correlation with the agent log.
func Body(n Notification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Service %s showed no status change across two probe cycles (md5=%s)\n", n.Unit, n.Fingerprint)
	fmt.Fprintf(&b, "and was restarted at %s with exit code %d.\n", n.Timestamp.Format(time.RFC3339), n.RestartCode)
	b.WriteString("\n")

	if n.Record != "" {
		b.WriteString(n.Record)
		if !strings.HasSuffix(n.Record, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "vpnwatch cycle %s\n", n.CycleID)

	return b.String()
}
