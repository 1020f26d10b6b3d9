// Package extractor distills fetched HTML into the fields stored on an item.
package extractor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
)

// ErrExtraction means the page was fetched but no usable content came out.
var ErrExtraction = errors.New("content extraction failed")

// Extraction is the distilled result for one page.
type Extraction struct {
	Title       string
	Author      string
	OGImage     string
	Content     string
	Lang        string
	PublishedAt *time.Time
}

type Extractor struct {
	converter *md.Converter
	detector  lingua.LanguageDetector
}

// New builds an Extractor with a markdown converter and a language detector
// restricted to the languages we expect saved pages to be written in.
func New() *Extractor {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.German,
			lingua.French,
			lingua.Spanish,
			lingua.Portuguese,
			lingua.Japanese,
		).
		Build()

	return &Extractor{
		converter: md.NewConverter("", true, nil),
		detector:  detector,
	}
}

// Extract runs readability over the raw HTML, converts the main content to
// markdown, and pulls metadata (author, og:image, published date, language).
func (e *Extractor) Extract(pageURL string, rawHTML []byte) (*Extraction, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid page url: %v", ErrExtraction, err)
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(string(rawHTML)), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	content, err := e.converter.ConvertString(article.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: markdown conversion: %v", ErrExtraction, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: no readable content at %s", ErrExtraction, pageURL)
	}

	out := &Extraction{
		Title:       strings.TrimSpace(article.Title),
		Author:      strings.TrimSpace(article.Byline),
		OGImage:     article.Image,
		Content:     content,
		PublishedAt: article.PublishedTime,
	}

	// Readability misses some metadata; fill gaps from the raw document.
	if doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(string(rawHTML))); docErr == nil {
		e.fillMeta(doc, out)
	}

	if lang, exists := e.detector.DetectLanguageOf(article.TextContent); exists {
		out.Lang = strings.ToLower(lang.IsoCode639_1().String())
	}

	return out, nil
}

func (e *Extractor) fillMeta(doc *goquery.Document, out *Extraction) {
	if out.OGImage == "" {
		if v, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
			out.OGImage = strings.TrimSpace(v)
		}
	}
	if out.Author == "" {
		if v, ok := doc.Find(`meta[name="author"]`).First().Attr("content"); ok {
			out.Author = strings.TrimSpace(v)
		}
	}
	if out.Title == "" {
		out.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if out.PublishedAt == nil {
		for _, sel := range []string{
			`meta[property="article:published_time"]`,
			`meta[name="date"]`,
		} {
			v, ok := doc.Find(sel).First().Attr("content")
			if !ok || strings.TrimSpace(v) == "" {
				continue
			}
			if parsed, parseErr := dateparse.ParseAny(strings.TrimSpace(v)); parseErr == nil {
				out.PublishedAt = &parsed
				break
			}
		}
	}
}
