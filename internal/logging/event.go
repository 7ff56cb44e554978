package logging

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const (
	RequestIDHeader = "X-Request-Id"
)

var correlationCounter uint64

func NewOperationID() string {
	return newCorrelationID("op")
}

func NewRequestID() string {
	return newCorrelationID("req")
}

// EnsureRequestID returns the caller-supplied request ID when present,
// otherwise mints a fresh one.
func EnsureRequestID(existing string) string {
	trimmed := strings.TrimSpace(existing)
	if trimmed != "" {
		return trimmed
	}

	return NewRequestID()
}

func newCorrelationID(prefix string) string {
	counter := atomic.AddUint64(&correlationCounter, 1)
	ts := time.Now().UTC().UnixMilli()
	return fmt.Sprintf("%s-%s-%s", prefix, strconv.FormatInt(ts, 36), strconv.FormatUint(counter, 36))
}
