// Package localcollection implements the local-collection concrete search
// engine: a naive substring search over plain-text files rooted at a
// configured directory, for researching over a user's own documents rather
// than the public web.
package localcollection

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// RootDirEnv names the environment variable holding the directory tree to
// search. If unset, the engine returns no results rather than erroring, so
// that enabling it without configuring it degrades harmlessly.
const RootDirEnv = "LOCAL_COLLECTION_ROOT"

const maxSnippetLen = 500

type previewer struct {
	rootDir string
}

// New builds the local-collection engine.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	return searchengine.NewBase("localcollection", previewer{rootDir: os.Getenv(RootDirEnv)}, nil, client, cfg)
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	if p.rootDir == "" {
		return nil, nil
	}

	needle := strings.ToLower(query)
	var results []types.SearchResult

	err := filepath.WalkDir(p.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if len(results) >= 10 {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		text := string(content)
		idx := strings.Index(strings.ToLower(text), needle)
		if idx < 0 {
			return nil
		}

		results = append(results, types.SearchResult{
			Title:       filepath.Base(path),
			Link:        "file://" + path,
			Snippet:     snippetAround(text, idx),
			FullContent: text,
			SourceType:  "localcollection",
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("localcollection: walk %s: %w", p.rootDir, err)
	}
	return results, nil
}

func snippetAround(text string, idx int) string {
	start := idx - maxSnippetLen/2
	if start < 0 {
		start = 0
	}
	end := idx + maxSnippetLen/2
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}
