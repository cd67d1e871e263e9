// Command ldr is the command-line entry point for the deep research
// engine: one-shot quick-summary and generate-report runs for scripting,
// plus a serve subcommand exposing the HTTP/WebSocket front-end.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ldr: %v\n", err)
		os.Exit(1)
	}
}

// rootFlags holds the persistent flags shared by every subcommand: where
// the research record lives and which LLM/search defaults to start from.
type rootFlags struct {
	dbPath                string
	provider              string
	model                 string
	apiKey                string
	baseURL               string
	searchEngine          string
	strategyName          string
	questionGenerator     string
	iterations            int
	questionsPerIteration int
	maxResults            int
	timePeriod            string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "ldr",
		Short: "Iterative deep research engine",
		Long: `ldr runs an LLM-driven, citation-bearing research loop over a
question: it decomposes the question into sub-questions, searches across
one or more configured search engines, compresses accumulated findings,
and synthesizes a cited report.`,
	}

	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "ldr.db", "path to the sqlite research record")
	cmd.PersistentFlags().StringVar(&flags.provider, "provider", "", "LLM provider (anthropic, openai, ollama, fallback, ...); empty uses the stored default")
	cmd.PersistentFlags().StringVar(&flags.model, "model", "", "LLM model name; empty uses the stored default")
	cmd.PersistentFlags().StringVar(&flags.apiKey, "api-key", "", "LLM API key; empty uses LDR_LLM_API_KEY / provider-specific env var")
	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "LLM base URL override, for OpenAI-compatible endpoints")
	cmd.PersistentFlags().StringVar(&flags.searchEngine, "search-engine", "", "search engine name, or \"auto\" to rank by descriptor; empty uses the stored default")
	cmd.PersistentFlags().StringVar(&flags.strategyName, "strategy", "", "search strategy name; empty uses the stored default")
	cmd.PersistentFlags().StringVar(&flags.questionGenerator, "question-generator", "", "sub-question generator name; empty uses the stored default")
	cmd.PersistentFlags().IntVar(&flags.iterations, "iterations", 0, "number of research iterations; 0 uses the stored default")
	cmd.PersistentFlags().IntVar(&flags.questionsPerIteration, "questions-per-iteration", 0, "sub-questions generated per iteration; 0 uses the stored default")
	cmd.PersistentFlags().IntVar(&flags.maxResults, "max-results", 0, "maximum search results per query; 0 uses the stored default")
	cmd.PersistentFlags().StringVar(&flags.timePeriod, "time-period", "", "restrict search results to a recency window, e.g. \"1y\"")

	cmd.AddCommand(newQuickSummaryCmd(&flags))
	cmd.AddCommand(newGenerateReportCmd(&flags))
	cmd.AddCommand(newServeCmd(&flags))

	return cmd
}
