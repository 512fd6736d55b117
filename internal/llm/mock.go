package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client. With no Respond func it returns an empty
// completion, which every caller treats as a failure and replaces with its
// canned text.
type MockClient struct {
	Respond func(prompt string, maxTokens int) (string, error)

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records one Complete invocation.
type MockCall struct {
	Prompt    string
	MaxTokens int
}

func (m *MockClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Prompt: prompt, MaxTokens: maxTokens})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Respond == nil {
		return "", nil
	}
	return m.Respond(prompt, maxTokens)
}

// Calls returns the recorded invocations.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
