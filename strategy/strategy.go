// Package strategy implements SearchStrategy: the pluggable orchestrator
// that drives the question-search-analyze loop over a SearchEngine, an
// LLM, a citation handler, a question generator, and a knowledge
// compressor, per spec.md §4.7. Every variant shares the same Result
// shape, termination contract, and progress contract; they differ only
// in how they sequence and fan out sub-questions.
package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/ujesh-sakariya/deepresearch-go/citation"
	"github.com/ujesh-sakariya/deepresearch-go/findings"
	"github.com/ujesh-sakariya/deepresearch-go/knowledge"
	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/question"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// ErrTerminated is returned by Analyze when a cooperative termination
// check observes that termination has been requested mid-run. The
// service catches this and finalizes the research as suspended.
var ErrTerminated = errors.New("strategy: research terminated")

// Result is what every strategy variant's Analyze returns.
type Result struct {
	Findings          []types.Finding
	Iterations        int
	Questions         types.QuestionsByIteration
	FormattedFindings string
	CurrentKnowledge  string
	AllLinks          []types.SearchResult

	// Candidates and EntityCoverage are populated only by the
	// focused-iteration strategy; nil/empty for every other variant.
	Candidates     []Candidate
	EntityCoverage map[string]float64
}

// Candidate is one answer candidate tracked by the focused-iteration
// strategy's ProgressTracker.
type Candidate struct {
	Value      string
	Confidence float64
}

// TerminationChecker is polled cooperatively at phase boundaries. Terminated
// reports whether termination has been requested for this research.
type TerminationChecker interface {
	Terminated() bool
}

// TerminationFunc adapts a plain function to a TerminationChecker.
type TerminationFunc func() bool

// Terminated calls f.
func (f TerminationFunc) Terminated() bool { return f() }

// neverTerminate is used when Params.Termination is left nil.
type neverTerminate struct{}

func (neverTerminate) Terminated() bool { return false }

// ProgressFunc reports one phase transition. phase is drawn from the
// fixed vocabulary in spec.md §3 (init, iteration_start, search,
// search_complete, search_error, analysis, analysis_complete,
// analysis_error, knowledge_compression, iteration_complete,
// output_generation, complete, error, termination). A non-negative
// percent is non-decreasing across a single research and does not reach
// 100 until the research is actually complete; error and termination
// reports may carry -1 instead of a percentage. The standard and
// focused-iteration loops clamp their percentages through
// progressTracker; the other variants emit fixed, increasing values.
type ProgressFunc func(ctx context.Context, percent int, phase, message string)

// Params bundles everything a strategy needs, injected at construction
// per spec.md §4.7's composition-over-inheritance guidance.
type Params struct {
	Query  string
	Engine searchengine.Engine
	LLM    llm.Client

	CitationHandler citation.Handler
	QuestionGen     question.Generator
	Compressor      knowledge.Compressor
	Repo            *findings.Repository

	MaxIterations          int
	QuestionsPerIteration  int
	KnowledgeAccumulation  types.KnowledgeAccumulationPolicy
	ContextCharLimit       int

	OnProgress  ProgressFunc
	Termination TerminationChecker
}

func (p *Params) termination() TerminationChecker {
	if p.Termination != nil {
		return p.Termination
	}
	return neverTerminate{}
}

func (p *Params) reportProgress(ctx context.Context, percent int, phase, message string) {
	if p.OnProgress != nil {
		p.OnProgress(ctx, percent, phase, message)
	}
}

// checkTerminated returns ErrTerminated if termination has been
// requested, emitting the termination progress phase first.
func (p *Params) checkTerminated(ctx context.Context) error {
	if !p.termination().Terminated() {
		return nil
	}
	p.reportProgress(ctx, -1, "termination", "research terminated by request")
	return ErrTerminated
}

// Strategy is the shared capability every variant implements.
type Strategy interface {
	Analyze(ctx context.Context) (*Result, error)
}

// progressTracker clamps percentages to be monotonically non-decreasing,
// per the shared progress contract.
type progressTracker struct {
	max int
}

func (t *progressTracker) next(p *Params, ctx context.Context, candidate int, phase, message string) {
	if candidate < t.max {
		candidate = t.max
	}
	if candidate > 99 {
		candidate = 99
	}
	t.max = candidate
	p.reportProgress(ctx, candidate, phase, message)
}

// iterationProgress implements spec.md §4.7.1's percentage formula:
// base + (question_index/total)*(1/total_iterations)*0.5.
func iterationProgress(iteration, totalIterations, questionIndex, totalQuestions int) int {
	if totalIterations <= 0 {
		totalIterations = 1
	}
	if totalQuestions <= 0 {
		totalQuestions = 1
	}
	base := float64(iteration-1) / float64(totalIterations) * 100
	within := float64(questionIndex) / float64(totalQuestions) * (1.0 / float64(totalIterations)) * 0.5 * 100
	return int(base + within)
}

// runOneQuestion executes the shared per-question contract: check
// termination, search, skip on empty, else capture the link offset,
// invoke the citation handler with it, and only once that succeeds
// append the links and the finding, then optionally compress the updated
// knowledge. It returns the (possibly unchanged) knowledge string and
// true if a finding was produced.
//
// Per spec.md §7's propagation policy, the only error this returns is
// ErrTerminated; a search or citation-handler failure for this one
// question is logged via the search_error/analysis_error progress phase
// and treated as "no finding produced" so the research continues with
// the next question instead of aborting entirely.
func runOneQuestion(ctx context.Context, p *Params, phase string, iteration int, question string, currentKnowledge string, compressAfter bool) (string, bool, error) {
	if err := p.checkTerminated(ctx); err != nil {
		return currentKnowledge, false, err
	}

	results, err := p.Engine.Run(ctx, question)
	if err != nil {
		p.reportProgress(ctx, -1, "search_error", fmt.Sprintf("search failed for %q: %v", question, err))
		return currentKnowledge, false, nil
	}
	if len(results) == 0 {
		return currentKnowledge, false, nil
	}

	offset := p.Repo.NrOfLinks()
	citeResult, err := p.CitationHandler.Handle(ctx, question, results, currentKnowledge, offset)
	if err != nil {
		p.reportProgress(ctx, -1, "analysis_error", fmt.Sprintf("citation handler failed for %q: %v", question, err))
		return currentKnowledge, false, nil
	}
	p.Repo.AppendLinks(results)
	p.Repo.AppendFinding(types.Finding{
		Phase:         phase,
		Content:       citeResult.Content,
		Question:      question,
		SearchResults: results,
		Documents:     citeResult.Documents,
	})

	newKnowledge := currentKnowledge + "\n\n" + citeResult.Content
	if compressAfter && p.Compressor != nil {
		compressed, err := p.Compressor.Compress(ctx, newKnowledge, question, results)
		if err != nil {
			p.reportProgress(ctx, -1, "analysis_error", fmt.Sprintf("knowledge compression failed for %q: %v", question, err))
		} else {
			newKnowledge = compressed
		}
	}
	return newKnowledge, true, nil
}

// finalize builds the Result shared by every variant from the
// repository's final state plus the accumulated knowledge string.
func finalize(p *Params, iterations int, currentKnowledge string) *Result {
	return &Result{
		Findings:          p.Repo.Findings(),
		Iterations:        iterations,
		Questions:         p.Repo.QuestionsByIteration(),
		FormattedFindings: p.Repo.Format(),
		CurrentKnowledge:  currentKnowledge,
		AllLinks:          p.Repo.LinksOfSystem(),
	}
}
