package searchengine

import (
	"strings"
	"testing"
)

func TestStripBoilerplate_DropsScriptsAndNav(t *testing.T) {
	html := `<html><head><script>evil()</script></head>` +
		`<body><nav>menu</nav><h1>Title</h1><p>Real content here.</p><footer>copyright</footer></body></html>`

	got, err := StripBoilerplate(html)
	if err != nil {
		t.Fatalf("StripBoilerplate() error = %v", err)
	}
	if strings.Contains(got, "evil()") {
		t.Errorf("script content leaked into output: %q", got)
	}
	if strings.Contains(got, "menu") || strings.Contains(got, "copyright") {
		t.Errorf("nav/footer content leaked into output: %q", got)
	}
	if !strings.Contains(got, "Title") || !strings.Contains(got, "Real content here.") {
		t.Errorf("missing expected content: %q", got)
	}
}

func TestCleanWhitespace_CollapsesRuns(t *testing.T) {
	in := "a   b\n\n\n\nc"
	got := cleanWhitespace(in)
	if strings.Contains(got, "   ") {
		t.Errorf("spaces not collapsed: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("newlines not collapsed: %q", got)
	}
}
