package sources

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stripHTML flattens markup into whitespace-normalized plain text. Feed
// bodies arrive as HTML fragments on some platforms and plain text on
// others; downstream filtering expects text only.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
