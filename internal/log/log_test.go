package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentWallet, Output: &buf})
	l.Info("debited", FieldWalletKey, "alhind")

	out := buf.String()
	if !strings.Contains(out, "component=wallet") || !strings.Contains(out, "wallet_key=alhind") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestStructuredLoggerRejected(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf}))
	sl.LogRejected(context.Background(), "Debit rejected", errors.New("insufficient"),
		ComponentWallet, OpDebit, ErrorTypeInsufficient, NewFields())

	out := buf.String()
	for _, want := range []string{"level=WARN", "operation=debit", "error_type=insufficient_balance"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

