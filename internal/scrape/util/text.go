package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText collapses all runs of whitespace (including non-breaking spaces)
// into single spaces and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// StripHTML reduces markup to plain text: tags removed, entities and numeric
// character references decoded, whitespace collapsed. Applying it to already
// plain text returns the text unchanged, so adapters can call it
// unconditionally.
func StripHTML(markup string) string {
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return CleanText(markup)
	}
	doc.Find("script,style").Remove()

	// Block-level tags separate words once rendered; make sure they do in
	// the extracted text too.
	var b strings.Builder
	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
		b.WriteString(" ")
	})
	text := b.String()
	if CleanText(text) == "" {
		text = doc.Text()
	}
	return CleanText(text)
}
