package strategy

import (
	"context"
	"errors"
	"sync"

	"github.com/ujesh-sakariya/deepresearch-go/citation"
	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// fakeEngine is a searchengine.Engine test double: it returns a canned
// result set per question (or the default), an error per question (or
// the default), and records every query it was asked, under a mutex
// since the parallel/rapid/sourceBased variants fan out concurrently.
type fakeEngine struct {
	mu       sync.Mutex
	calls    []string
	resultsFor map[string][]types.SearchResult
	errFor     map[string]error
	results    []types.SearchResult
	err        error
}

func (f *fakeEngine) Run(_ context.Context, query string) ([]types.SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()

	if f.errFor != nil {
		if err, ok := f.errFor[query]; ok {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.resultsFor != nil {
		if res, ok := f.resultsFor[query]; ok {
			return res, nil
		}
	}
	return f.results, nil
}

func (f *fakeEngine) Invoke(ctx context.Context, query string) ([]types.SearchResult, error) {
	return f.Run(ctx, query)
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeCitationHandler returns a fixed Result, or fails for a named set of
// questions / unconditionally.
type fakeCitationHandler struct {
	err      error
	failFor  map[string]bool
	content  string
}

func (f *fakeCitationHandler) Handle(_ context.Context, question string, results []types.SearchResult, _ string, _ int) (*citation.Result, error) {
	if f.failFor != nil && f.failFor[question] {
		return nil, errors.New("citation handler: synthesis failed")
	}
	if f.err != nil {
		return nil, f.err
	}
	content := f.content
	if content == "" {
		content = "synthesized answer for " + question
	}
	return &citation.Result{Content: content}, nil
}

// fakeQuestionGen returns a fixed list of questions, ignoring inputs.
type fakeQuestionGen struct {
	questions []string
	err       error
}

func (f *fakeQuestionGen) Generate(_ context.Context, _ string, _ string, _ int, _ types.QuestionsByIteration) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

// fakeCompressor appends a marker to currentKnowledge, or fails.
type fakeCompressor struct {
	err    error
	suffix string
}

func (f *fakeCompressor) Compress(_ context.Context, currentKnowledge string, _ string, _ []types.SearchResult) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	suffix := f.suffix
	if suffix == "" {
		suffix = "[compressed]"
	}
	return currentKnowledge + suffix, nil
}

// fakeLLM answers Invoke with a fixed response, or fails.
type fakeLLM struct {
	err     error
	content string
}

func (f *fakeLLM) Invoke(_ context.Context, _ string) (*llm.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.content}, nil
}

// progressRecorder records every phase/message reported through
// Params.OnProgress, for asserting that a degraded failure was at least
// logged via the search_error/analysis_error vocabulary.
type progressRecorder struct {
	mu     sync.Mutex
	phases []string
}

func (r *progressRecorder) record(_ context.Context, _ int, phase string, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, phase)
}

func (r *progressRecorder) has(phase string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.phases {
		if p == phase {
			return true
		}
	}
	return false
}

func (r *progressRecorder) count(phase string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.phases {
		if p == phase {
			n++
		}
	}
	return n
}
