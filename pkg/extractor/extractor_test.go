package extractor

import (
	"errors"
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html lang="en">
<head>
	<title>Understanding Goroutines</title>
	<meta name="author" content="Jordan Example">
	<meta property="og:image" content="https://example.com/cover.png">
	<meta property="article:published_time" content="2024-03-15T10:00:00Z">
</head>
<body>
	<nav><a href="/">Home</a> <a href="/about">About</a></nav>
	<article>
		<h1>Understanding Goroutines</h1>
		<p>Goroutines are lightweight threads managed by the Go runtime. They make
		it practical to run tens of thousands of concurrent tasks in a single
		process without exhausting operating system resources.</p>
		<p>Channels complement goroutines by providing a typed conduit for
		communication. Instead of sharing memory and guarding it with locks,
		Go programs are encouraged to share memory by communicating.</p>
		<p>The select statement rounds out the model. It lets a goroutine wait on
		multiple channel operations at once and react to whichever becomes ready
		first, which is the foundation of most timeout and cancellation patterns
		in real services.</p>
	</article>
	<footer>Copyright 2024</footer>
</body>
</html>`

func TestExtract(t *testing.T) {
	e := New()

	got, err := e.Extract("https://example.com/goroutines", []byte(articleHTML))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}

	if got.Title != "Understanding Goroutines" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Author != "Jordan Example" {
		t.Errorf("Author = %q", got.Author)
	}
	if got.OGImage != "https://example.com/cover.png" {
		t.Errorf("OGImage = %q", got.OGImage)
	}
	if !strings.Contains(got.Content, "lightweight threads") {
		t.Errorf("Content lost article text: %q", got.Content)
	}
	if strings.Contains(got.Content, "<p>") {
		t.Error("Content still contains HTML tags")
	}
	if got.Lang != "en" {
		t.Errorf("Lang = %q, want %q", got.Lang, "en")
	}
	if got.PublishedAt == nil {
		t.Fatal("PublishedAt is nil")
	}
	if y, m, d := got.PublishedAt.Date(); y != 2024 || int(m) != 3 || d != 15 {
		t.Errorf("PublishedAt = %v, want 2024-03-15", got.PublishedAt)
	}
}

func TestExtract_NoContent(t *testing.T) {
	e := New()

	empty := `<html><head><title>Nothing</title></head><body></body></html>`
	if _, err := e.Extract("https://example.com/empty", []byte(empty)); !errors.Is(err, ErrExtraction) {
		t.Errorf("Extract() on empty page = %v, want ErrExtraction", err)
	}
}
