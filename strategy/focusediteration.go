package strategy

import (
	"context"
	"fmt"
	"sort"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// FocusedIterationConfig names the early-termination thresholds and
// minimum iteration count for the focused-iteration strategy. The
// defaults match the values fixed in the system this was distilled from
// (spec.md §5: "plausible tuning knobs", preserved as named constants
// rather than hardcoded literals so they can be overridden).
type FocusedIterationConfig struct {
	// ConfidenceThreshold is the top-candidate confidence above which the
	// strategy may terminate early, once the current iteration is at least
	// MinIterationsBeforeEarlyStop.
	ConfidenceThreshold float64
	// CoverageThreshold is the entity-coverage fraction above which the
	// strategy may terminate early under the same iteration floor.
	CoverageThreshold float64
	// MinIterationsBeforeEarlyStop is the minimum number of iterations
	// that must run before either threshold is honored.
	MinIterationsBeforeEarlyStop int
}

// DefaultFocusedIterationConfig returns the thresholds preserved from the
// system this strategy was distilled from: 0.9 confidence, 0.8 coverage,
// no early stop before iteration 3.
func DefaultFocusedIterationConfig() FocusedIterationConfig {
	return FocusedIterationConfig{
		ConfidenceThreshold:          0.9,
		CoverageThreshold:            0.8,
		MinIterationsBeforeEarlyStop: 3,
	}
}

// progressTrackerState is the ProgressTracker spec.md §4.7.5 describes:
// found answer candidates with confidences, plus per-entity coverage
// fractions, both of which the strategy inspects after each iteration to
// decide on early termination or verification searches.
type progressTrackerState struct {
	candidates     []Candidate
	entityCoverage map[string]float64
}

func (t *progressTrackerState) topCandidateConfidence() float64 {
	best := 0.0
	for _, c := range t.candidates {
		if c.Confidence > best {
			best = c.Confidence
		}
	}
	return best
}

func (t *progressTrackerState) averageCoverage() float64 {
	if len(t.entityCoverage) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range t.entityCoverage {
		sum += v
	}
	return sum / float64(len(t.entityCoverage))
}

// underCoveredEntities returns entities whose coverage is below
// threshold, sorted for determinism.
func (t *progressTrackerState) underCoveredEntities(threshold float64) []string {
	var out []string
	for e, v := range t.entityCoverage {
		if v < threshold {
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out
}

// focusedIteration uses the browse-comp question generator and a
// ProgressTracker to terminate early on high confidence or coverage, per
// spec.md §4.7.5.
type focusedIteration struct {
	params *Params
	cfg    FocusedIterationConfig
}

// NewFocusedIteration builds the progressive focused-iteration strategy.
// cfg is typically strategy.DefaultFocusedIterationConfig().
func NewFocusedIteration(p *Params, cfg FocusedIterationConfig) Strategy {
	return &focusedIteration{params: p, cfg: cfg}
}

func (s *focusedIteration) Analyze(ctx context.Context) (*Result, error) {
	p := s.params
	p.reportProgress(ctx, 0, "init", "starting focused-iteration research")

	currentKnowledge := ""
	tracker := &progressTrackerState{entityCoverage: map[string]float64{}}
	progress := &progressTracker{}
	iterations := 0

	for iteration := 1; iteration <= p.MaxIterations; iteration++ {
		if err := p.checkTerminated(ctx); err != nil {
			return nil, err
		}
		iterations = iteration
		progress.next(p, ctx, iterationProgress(iteration, p.MaxIterations, 0, p.QuestionsPerIteration), "iteration_start", fmt.Sprintf("iteration %d", iteration))

		byIteration := p.Repo.QuestionsByIteration()
		questions, err := p.QuestionGen.Generate(ctx, currentKnowledge, p.Query, p.QuestionsPerIteration, byIteration)
		if err != nil {
			return nil, fmt.Errorf("strategy: generate questions: %w", err)
		}

		if iteration > 1 {
			for _, entity := range tracker.underCoveredEntities(s.cfg.CoverageThreshold) {
				questions = append(questions, fmt.Sprintf("%s %s", p.Query, entity))
			}
		}
		p.Repo.RecordQuestions(iteration, questions)

		for qi, q := range questions {
			if err := p.checkTerminated(ctx); err != nil {
				return nil, err
			}
			progress.next(p, ctx, iterationProgress(iteration, p.MaxIterations, qi, len(questions)), "search", q)

			newKnowledge, produced, err := runOneQuestion(ctx, p, "focused-iteration", iteration, q, currentKnowledge, false)
			if err != nil {
				return nil, err
			}
			if produced {
				currentKnowledge = newKnowledge
				updateProgressTracker(tracker, q, p.Repo.LinksOfSystem())
			}
		}
		progress.next(p, ctx, iterationProgress(iteration, p.MaxIterations, len(questions), len(questions)), "iteration_complete", fmt.Sprintf("iteration %d complete", iteration))

		if iteration >= s.cfg.MinIterationsBeforeEarlyStop &&
			(tracker.topCandidateConfidence() > s.cfg.ConfidenceThreshold || tracker.averageCoverage() > s.cfg.CoverageThreshold) {
			break
		}
	}

	if err := p.checkTerminated(ctx); err != nil {
		return nil, err
	}
	p.reportProgress(ctx, 100, "complete", "research complete")

	result := finalize(p, iterations, currentKnowledge)
	result.Candidates = tracker.candidates
	result.EntityCoverage = tracker.entityCoverage
	return result, nil
}

// updateProgressTracker folds one sub-question's result set into the
// tracker: every result title becomes (or reinforces) a candidate, and
// the question text itself is marked as covered entity-wise, since the
// focused-iteration strategy has no separate entity-extraction pass of
// its own — it relies on the browse-comp generator's own entity
// extraction, surfaced here only as coverage bookkeeping.
func updateProgressTracker(t *progressTrackerState, question string, links []types.SearchResult) {
	if len(links) == 0 {
		t.entityCoverage[question] = 0
		return
	}
	t.entityCoverage[question] = 1

	for _, link := range links {
		found := false
		for i := range t.candidates {
			if t.candidates[i].Value == link.Title {
				t.candidates[i].Confidence += 0.1
				if t.candidates[i].Confidence > 1 {
					t.candidates[i].Confidence = 1
				}
				found = true
				break
			}
		}
		if !found {
			t.candidates = append(t.candidates, Candidate{Value: link.Title, Confidence: 0.3})
		}
	}
}
