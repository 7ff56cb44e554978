package logging

import (
	"strings"
	"testing"
)

func TestCorrelationIDs(t *testing.T) {
	op := NewOperationID()
	req := NewRequestID()

	if !strings.HasPrefix(op, "op-") {
		t.Errorf("operation ID %q missing op- prefix", op)
	}
	if !strings.HasPrefix(req, "req-") {
		t.Errorf("request ID %q missing req- prefix", req)
	}
	if NewOperationID() == op {
		t.Error("operation IDs must be unique")
	}
}

func TestEnsureRequestID(t *testing.T) {
	if got := EnsureRequestID("client-supplied"); got != "client-supplied" {
		t.Errorf("got %q, want caller-supplied ID preserved", got)
	}
	if got := EnsureRequestID("  spaced  "); got != "spaced" {
		t.Errorf("got %q, want trimmed ID", got)
	}
	if got := EnsureRequestID(""); !strings.HasPrefix(got, "req-") {
		t.Errorf("got %q, want a freshly minted request ID", got)
	}
	if got := EnsureRequestID("   "); !strings.HasPrefix(got, "req-") {
		t.Errorf("got %q, want a freshly minted request ID for whitespace", got)
	}
}
