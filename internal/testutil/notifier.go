package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"centime/internal/notify"
)

// SentMessage records a single Send call on the fake notifier.
type SentMessage struct {
	To       []notify.Recipient
	Subject  string
	HTMLBody string
}

// FakeNotifier is a notify.Notifier that records every message instead
// of delivering it. Safe for concurrent use; dispatch is asynchronous,
// so tests should wait with WaitForMessages before asserting.
type FakeNotifier struct {
	mu       sync.Mutex
	messages []SentMessage
	failWith error
}

var _ notify.Notifier = (*FakeNotifier)(nil)

// NewFakeNotifier creates an empty recording notifier.
func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

// FailWith makes every subsequent Send return err while still
// recording the message.
func (f *FakeNotifier) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = err
}

// Send records the message.
func (f *FakeNotifier) Send(_ context.Context, to []notify.Recipient, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, SentMessage{To: to, Subject: subject, HTMLBody: htmlBody})
	return f.failWith
}

// Messages returns a copy of all recorded messages.
func (f *FakeNotifier) Messages() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentMessage, len(f.messages))
	copy(out, f.messages)
	return out
}

// WaitForMessages blocks until at least n messages have been recorded
// or the deadline passes, then returns the recorded messages.
func (f *FakeNotifier) WaitForMessages(t *testing.T, n int) []SentMessage {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if msgs := f.Messages(); len(msgs) >= n {
			return msgs
		}
		time.Sleep(5 * time.Millisecond)
	}

	msgs := f.Messages()
	t.Fatalf("expected at least %d notification(s), got %d", n, len(msgs))
	return msgs
}

// AssertNoMessages verifies that no message arrives within a short
// settle window, for paths that must stay silent.
func (f *FakeNotifier) AssertNoMessages(t *testing.T) {
	t.Helper()

	time.Sleep(50 * time.Millisecond)
	if msgs := f.Messages(); len(msgs) != 0 {
		t.Errorf("expected no notifications, got %d (first subject: %q)", len(msgs), msgs[0].Subject)
	}
}
