// Package types holds the runtime data-model shared across the research
// engine: search results, documents built from them, per-question findings,
// and the progress log entries that flow through the progress bus and the
// persistent record.
package types

import "time"

// SearchResult is a single item returned by a SearchEngine, before or after
// full-content retrieval. Index is assigned during citation formatting and
// is zero until then.
type SearchResult struct {
	Title       string         `json:"title"`
	Link        string         `json:"link"`
	Snippet     string         `json:"snippet"`
	FullContent string         `json:"full_content,omitempty"`
	Index       int            `json:"index,omitempty"`
	SourceType  string         `json:"source_type,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// DocumentMetadata is the provenance attached to a Document.
type DocumentMetadata struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	Index  int    `json:"index"`
}

// Document is the unit the citation handler hands to the LLM: page content
// plus enough metadata to cite it back.
type Document struct {
	PageContent string           `json:"page_content"`
	Metadata    DocumentMetadata `json:"metadata"`
}

// NewDocument builds a Document from a search result, using FullContent when
// present and falling back to the snippet, per the citation-handler contract.
func NewDocument(r SearchResult, index int) Document {
	content := r.Snippet
	if r.FullContent != "" {
		content = r.FullContent
	}
	return Document{
		PageContent: content,
		Metadata: DocumentMetadata{
			Source: r.Link,
			Title:  r.Title,
			Index:  index,
		},
	}
}

// Finding is one sub-question's input, synthesized output, and sources.
type Finding struct {
	Phase         string         `json:"phase"`
	Content       string         `json:"content"`
	Question      string         `json:"question"`
	SearchResults []SearchResult `json:"search_results"`
	Documents     []Document     `json:"documents"`
}

// QuestionsByIteration maps an iteration number (1-based) to the ordered
// sub-questions generated for it.
type QuestionsByIteration map[int][]string

// ResearchMode selects the output shape of a research run.
type ResearchMode string

const (
	ModeQuick    ResearchMode = "quick"
	ModeDetailed ResearchMode = "detailed"
)

// ResearchStatus is the lifecycle state of a ResearchRecord.
type ResearchStatus string

const (
	StatusInProgress ResearchStatus = "in_progress"
	StatusCompleted  ResearchStatus = "completed"
	StatusFailed     ResearchStatus = "failed"
	StatusSuspended  ResearchStatus = "suspended"
)

// ProgressPhase is the fixed vocabulary of phases a progress event may carry
// in its metadata, per spec.md §3.
type ProgressPhase string

const (
	PhaseInit                ProgressPhase = "init"
	PhaseIterationStart       ProgressPhase = "iteration_start"
	PhaseSearch               ProgressPhase = "search"
	PhaseSearchComplete       ProgressPhase = "search_complete"
	PhaseSearchError          ProgressPhase = "search_error"
	PhaseAnalysis             ProgressPhase = "analysis"
	PhaseAnalysisComplete     ProgressPhase = "analysis_complete"
	PhaseAnalysisError        ProgressPhase = "analysis_error"
	PhaseKnowledgeCompression ProgressPhase = "knowledge_compression"
	PhaseIterationComplete    ProgressPhase = "iteration_complete"
	PhaseOutputGeneration     ProgressPhase = "output_generation"
	PhaseReportGeneration     ProgressPhase = "report_generation"
	PhaseReportComplete       ProgressPhase = "report_complete"
	PhaseComplete             ProgressPhase = "complete"
	PhaseError                ProgressPhase = "error"
	PhaseTermination          ProgressPhase = "termination"
)

// ProgressEntry is one append-only log line attached to a research.
type ProgressEntry struct {
	Time     time.Time      `json:"time"`
	Message  string         `json:"message"`
	Progress *int           `json:"progress,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Phase reads the "phase" key out of Metadata, if present.
func (e ProgressEntry) Phase() ProgressPhase {
	if e.Metadata == nil {
		return ""
	}
	if p, ok := e.Metadata["phase"].(string); ok {
		return ProgressPhase(p)
	}
	return ""
}

// LogLevel classifies a ResearchLog row for filtering.
type LogLevel string

const (
	LevelInfo      LogLevel = "info"
	LevelMilestone LogLevel = "milestone"
	LevelError     LogLevel = "error"
)

// Resource is a citable web artifact recorded against a research.
type Resource struct {
	ID             string         `json:"id"`
	ResearchID     string         `json:"research_id"`
	Title          string         `json:"title"`
	URL            string         `json:"url"`
	ContentPreview string         `json:"content_preview"`
	SourceType     string         `json:"source_type"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// KnowledgeAccumulationPolicy governs when KnowledgeCompressor runs.
type KnowledgeAccumulationPolicy string

const (
	AccumulateIteration           KnowledgeAccumulationPolicy = "ITERATION"
	AccumulateQuestion            KnowledgeAccumulationPolicy = "QUESTION"
	AccumulateNoKnowledge         KnowledgeAccumulationPolicy = "NO_KNOWLEDGE"
	AccumulateMaxNrOfCharacters   KnowledgeAccumulationPolicy = "MAX_NR_OF_CHARACTERS"
)
