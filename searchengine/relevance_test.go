package searchengine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

type fakeLLMClient struct {
	response string
	err      error
}

func (c fakeLLMClient) Invoke(context.Context, string) (*llm.Response, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Response{Content: c.response}, nil
}

func TestParseIndexArray(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []int
		ok    bool
	}{
		{"clean array", "[0, 2, 1]", []int{0, 2, 1}, true},
		{"surrounding text", "Here is the ranking: [0, 1] as requested.", []int{0, 1}, true},
		{"no brackets", "no array here", nil, false},
		{"malformed json", "[0, oops]", nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := parseIndexArray(c.input)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if ok && len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestFilterForRelevance_ReordersByParsedIndices(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { now = time.Now }()

	previews := []types.SearchResult{
		{Title: "first", Link: "http://a"},
		{Title: "second", Link: "http://b"},
		{Title: "third", Link: "http://c"},
	}
	client := fakeLLMClient{response: "[2, 0, 1]"}

	got := FilterForRelevance(context.Background(), client, previews, "q", Config{})
	if len(got) != 3 || got[0].Title != "third" || got[1].Title != "first" || got[2].Title != "second" {
		t.Fatalf("got %+v", got)
	}
}

func TestFilterForRelevance_DegradesOnParseFailure(t *testing.T) {
	previews := []types.SearchResult{
		{Title: "first", Link: "http://a"},
		{Title: "second", Link: "http://b"},
	}
	client := fakeLLMClient{response: "not parseable"}

	got := FilterForRelevance(context.Background(), client, previews, "q", Config{MaxFilteredResults: 1})
	if len(got) != 1 || got[0].Title != "first" {
		t.Fatalf("got %+v, want unranked previews truncated to 1", got)
	}
}

func TestFilterForRelevance_DegradesOnLLMError(t *testing.T) {
	previews := []types.SearchResult{{Title: "first", Link: "http://a"}}
	client := fakeLLMClient{err: errors.New("boom")}

	got := FilterForRelevance(context.Background(), client, previews, "q", Config{})
	if len(got) != 1 {
		t.Fatalf("got %+v, want unranked previews", got)
	}
}
