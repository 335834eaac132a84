// internal/pipeline/helpers_test.go
package pipeline

import (
	"context"
	"sync"

	"keywordgen/internal/llm"
)

// fakeLLM scripts responses per call. respond receives the prompt and the
// zero-based call number; calls are recorded for assertions.
type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	respond func(prompt string, call int) (string, error)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	f.mu.Lock()
	call := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(prompt, call)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
