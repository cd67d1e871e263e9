package llm

import (
	"context"
	"testing"
)

func TestValidProvider(t *testing.T) {
	cases := []struct {
		provider Provider
		want     bool
	}{
		{ProviderAnthropic, true},
		{ProviderOpenAI, true},
		{ProviderOllama, true},
		{ProviderFallback, true},
		{Provider("made-up"), false},
		{Provider(""), false},
	}

	for _, c := range cases {
		if got := ValidProvider(c.provider); got != c.want {
			t.Errorf("ValidProvider(%q) = %v, want %v", c.provider, got, c.want)
		}
	}
}

func TestNew_UnknownProviderErrors(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "not-a-real-provider"})
	if err == nil {
		t.Fatal("New() with unknown provider: want error, got nil")
	}
}

func TestNew_UseFallbackBypassesProvider(t *testing.T) {
	client, err := New(context.Background(), Config{Provider: "not-a-real-provider", UseFallback: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := client.(fallbackClient); !ok {
		t.Fatalf("New() with UseFallback: got %T, want fallbackClient", client)
	}
}

func TestNew_MissingCredentialsDegradesToFallback(t *testing.T) {
	client, err := New(context.Background(), Config{Provider: ProviderAnthropic})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := client.(fallbackClient); !ok {
		t.Fatalf("New() with no API key: got %T, want fallbackClient", client)
	}
}
