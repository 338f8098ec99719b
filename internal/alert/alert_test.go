package alert

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncLog records protocol lines received by the fake SMTP server.
type syncLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *syncLog) add(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

func (l *syncLog) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

func (l *syncLog) countPrefix(prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if strings.HasPrefix(strings.ToUpper(line), prefix) {
			n++
		}
	}
	return n
}

// fakeSMTPServer runs a minimal plaintext SMTP endpoint that accepts
// any message. It advertises neither STARTTLS nor AUTH.
func fakeSMTPServer(t *testing.T) (int, *syncLog) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	rec := &syncLog{}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handleSMTP(conn, rec)
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, rec
}

func handleSMTP(conn net.Conn, rec *syncLog) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	r := bufio.NewReader(conn)
	write := func(line string) { fmt.Fprintf(conn, "%s\r\n", line) }

	write("220 fake.test ESMTP")

	inData := false
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		rec.add(line)

		if inData {
			if line == "." {
				inData = false
				write("250 OK")
			}
			continue
		}

		verb := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
			write("250-fake.test")
			write("250 SIZE 10240000")
		case strings.HasPrefix(verb, "DATA"):
			inData = true
			write("354 End data with <CR><LF>.<CR><LF>")
		case strings.HasPrefix(verb, "QUIT"):
			write("221 Bye")
			return
		default:
			write("250 OK")
		}
	}
}

func testNotification() Notification {
	return Notification{
		Unit:        "openvpn-server@server.service",
		Hostname:    "vpn1",
		Timestamp:   time.Date(2026, 8, 22, 10, 30, 0, 0, time.UTC),
		Fingerprint: "5d41402abc4b2a76b9719d911017c592",
		Record:      "Condition: status MD5 unchanged",
		RestartCode: 0,
		CycleID:     "9f6f4f9a-8c6e-4b6f-9f2d-0c8f7b9d1e2a",
	}
}

func TestRecipients(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"single address", []string{"ops@example.com"}, []string{"ops@example.com"}},
		{"comma separated entry", []string{"a@example.com, b@example.com"}, []string{"a@example.com", "b@example.com"}},
		{"padded entries", []string{" a@example.com ", "b@example.com "}, []string{"a@example.com", "b@example.com"}},
		{"blanks dropped", []string{"", "  ", "a@example.com"}, []string{"a@example.com"}},
		{"only blanks", []string{" ", ""}, nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recipients(tt.values)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Recipients(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSubject(t *testing.T) {
	n := testNotification()
	want := "vpnwatch: restarted openvpn-server@server.service on vpn1"
	if got := Subject(n); got != want {
		t.Errorf("Subject() = %q, want %q", got, want)
	}

	n.Hostname = ""
	want = "vpnwatch: restarted openvpn-server@server.service on unknown-host"
	if got := Subject(n); got != want {
		t.Errorf("Subject() = %q, want %q", got, want)
	}
}

func TestBody(t *testing.T) {
	n := testNotification()
	body := Body(n)

	for _, want := range []string{
		"openvpn-server@server.service",
		"md5=5d41402abc4b2a76b9719d911017c592",
		"exit code 0",
		"Condition: status MD5 unchanged",
		"vpnwatch cycle 9f6f4f9a-8c6e-4b6f-9f2d-0c8f7b9d1e2a",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Body() missing %q:\n%s", want, body)
		}
	}

	if !strings.HasSuffix(body, "\n") {
		t.Errorf("Body() does not end with a newline: %q", body)
	}
}

func TestBody_NoRecord(t *testing.T) {
	n := testNotification()
	n.Record = ""

	body := Body(n)
	if strings.Contains(body, "\n\n\n") {
		t.Errorf("Body() without record has empty section:\n%q", body)
	}
	if !strings.Contains(body, "vpnwatch cycle") {
		t.Errorf("Body() missing cycle footer:\n%s", body)
	}
}

func TestMailer_Send_Disabled(t *testing.T) {
	m := New(Options{Enabled: false, To: []string{"ops@example.com"}})

	if m.Send(context.Background(), "subject", "body") {
		t.Error("Send() = true with alerting disabled, want false")
	}
}

func TestMailer_Send_NoRecipients(t *testing.T) {
	m := New(Options{Enabled: true, From: "vpnwatch@example.com", To: []string{" ", ""}})

	if m.Send(context.Background(), "subject", "body") {
		t.Error("Send() = true with no recipients, want false")
	}
}

func TestMailer_Send_InvalidSender(t *testing.T) {
	m := New(Options{
		Enabled: true,
		From:    "not-an-address",
		To:      []string{"ops@example.com"},
	})

	if m.Send(context.Background(), "subject", "body") {
		t.Error("Send() = true with invalid sender, want false")
	}
}

func TestMailer_Send_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	m := New(Options{
		Enabled:  true,
		From:     "vpnwatch@example.com",
		To:       []string{"ops@example.com"},
		Host:     "127.0.0.1",
		Port:     port,
		Security: SecurityNone,
		Timeout:  2 * time.Second,
	})

	if m.Send(context.Background(), "subject", "body") {
		t.Error("Send() = true against closed port, want false")
	}
}

func TestMailer_Notify_DeliversMessage(t *testing.T) {
	port, rec := fakeSMTPServer(t)

	m := New(Options{
		Enabled:  true,
		From:     "vpnwatch@example.com",
		To:       []string{"ops@example.com"},
		Host:     "127.0.0.1",
		Port:     port,
		Security: SecurityNone,
		Timeout:  5 * time.Second,
	})

	if !m.Notify(context.Background(), testNotification()) {
		t.Fatal("Notify() = false, want true")
	}

	if !rec.contains("MAIL FROM:<vpnwatch@example.com>") {
		t.Error("server did not receive MAIL FROM for the configured sender")
	}
	if !rec.contains("RCPT TO:<ops@example.com>") {
		t.Error("server did not receive RCPT TO for the configured recipient")
	}
	if !rec.contains("Subject: vpnwatch: restarted openvpn-server@server.service on vpn1") {
		t.Error("server did not receive the composed subject line")
	}
}

func TestMailer_Send_AuthUnsupportedFallsBack(t *testing.T) {
	port, rec := fakeSMTPServer(t)

	m := New(Options{
		Enabled:  true,
		From:     "vpnwatch@example.com",
		To:       []string{"ops@example.com"},
		Host:     "127.0.0.1",
		Port:     port,
		Security: SecurityNone,
		Username: "monitor",
		Password: "secret",
		Timeout:  5 * time.Second,
	})

	if !m.Send(context.Background(), "subject", "body") {
		t.Fatal("Send() = false, want unauthenticated fallback to deliver")
	}

	if got := rec.countPrefix("EHLO"); got < 2 {
		t.Errorf("server saw %d EHLO commands, want 2 (authenticated attempt plus fallback)", got)
	}
	if !rec.contains("DATA") {
		t.Error("server never received DATA; fallback did not deliver")
	}
}

func TestMailer_Send_OpportunisticFallsBackToPlaintext(t *testing.T) {
	port, rec := fakeSMTPServer(t)

	m := New(Options{
		Enabled:  true,
		From:     "vpnwatch@example.com",
		To:       []string{"ops@example.com"},
		Host:     "127.0.0.1",
		Port:     port,
		Security: SecurityStartTLS,
		Timeout:  5 * time.Second,
	})

	if !m.Send(context.Background(), "subject", "body") {
		t.Fatal("Send() = false, want opportunistic TLS to degrade to plaintext")
	}
	if !rec.contains("DATA") {
		t.Error("server never received DATA")
	}
}
