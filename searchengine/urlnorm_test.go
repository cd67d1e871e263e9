package searchengine

import "testing"

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases scheme and host",
			input: "HTTP://Example.COM/path",
			want:  "http://example.com/path",
		},
		{
			name:  "strips trailing slash",
			input: "http://example.com/path/",
			want:  "http://example.com/path",
		},
		{
			name:  "strips tracking params",
			input: "http://example.com/path?utm_source=x&id=5",
			want:  "http://example.com/path?id=5",
		},
		{
			name:  "strips fragment",
			input: "http://example.com/path#section",
			want:  "http://example.com/path",
		},
		{
			name:  "sorts remaining params",
			input: "http://example.com/path?b=2&a=1",
			want:  "http://example.com/path?a=1&b=2",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeURL(c.input); got != c.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", c.input, got, c.want)
			}
		})
	}
}

func TestNormalizeURL_DeduplicatesEquivalentURLs(t *testing.T) {
	a := NormalizeURL("https://Example.com/Article?utm_source=newsletter")
	b := NormalizeURL("https://example.com/Article")
	if a != b {
		t.Errorf("expected equivalent URLs to normalize identically: %q vs %q", a, b)
	}
}
