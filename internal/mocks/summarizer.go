package mocks

import (
	"context"
	"sync"
)

// MockSummarizer returns a canned summary and records its inputs.
type MockSummarizer struct {
	Summary string
	Err     error

	mu     sync.Mutex
	inputs []string
}

func (m *MockSummarizer) Summarize(ctx context.Context, input string) (string, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.Summary == "" {
		return "test summary.", nil
	}
	return m.Summary, nil
}

// Calls reports how many times Summarize was invoked.
func (m *MockSummarizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

// LastInput returns the most recent model input, or "" if none.
func (m *MockSummarizer) LastInput() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inputs) == 0 {
		return ""
	}
	return m.inputs[len(m.inputs)-1]
}

// BlockingSummarizer waits for the context to end, for timeout tests.
type BlockingSummarizer struct{}

func (BlockingSummarizer) Summarize(ctx context.Context, input string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (m *MockSummarizer) Name() string {
	return "mock"
}
