// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"

	"github.com/Ckr1111/darlybot/internal/nav"
)

// MockSender is a test double for [input.Sender] that records every action
// it is asked to press.
type MockSender struct {
	Focused  int
	Sent     [][]nav.Action
	FocusErr error
	SendErr  error
}

func (m *MockSender) Name() string { return "mock" }

func (m *MockSender) Focus(ctx context.Context) error {
	m.Focused++
	return m.FocusErr
}

func (m *MockSender) Send(ctx context.Context, actions []nav.Action) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, actions)
	return nil
}

// Keys flattens everything sent so far into one key-name sequence.
func (m *MockSender) Keys() []string {
	var keys []string
	for _, actions := range m.Sent {
		for _, a := range actions {
			keys = append(keys, a.KeyName())
		}
	}
	return keys
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
