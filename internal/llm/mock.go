package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse scripts one Generate outcome. Set Err to script a
// failure; otherwise Content and Usage populate the response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is the Provider used in tests and behind
// NEETPREP_LLM_PROVIDER=mock. Each Generate call consumes the next
// scripted response and is appended to Calls, so tests can assert on
// the exact prompt, schema, and token budget a caller sent.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	next   int

	// Calls records every request, in order.
	Calls []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

// Generate consumes the next scripted response. Running past the end
// of the script reports ErrProviderUnavailable, the same failure a
// vendor outage produces.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if m.next >= len(m.script) {
		return nil, &ErrProviderUnavailable{}
	}
	scripted := m.script[m.next]
	m.next++

	if scripted.Err != nil {
		return nil, scripted.Err
	}
	return &Response{
		Content:    scripted.Content,
		Usage:      scripted.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse extends the script mid-test.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
}

// CallCount reports how many Generate calls have been made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
