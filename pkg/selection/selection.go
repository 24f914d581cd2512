// Package selection turns a raw user selection, plain text or an HTML
// fragment, into the visible text the parser works on.
package selection

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var tagPattern = regexp.MustCompile(`<(?:[a-zA-Z][a-zA-Z0-9]*|/[a-zA-Z][a-zA-Z0-9]*)(?:\s[^<>]*)?/?>`)

const blockElements = "address,article,aside,blockquote,dd,div,dl,dt,figcaption,footer," +
	"h1,h2,h3,h4,h5,h6,header,li,main,nav,ol,p,pre,section,table,tbody,td,th,thead,tr,ul"

// IsHTML reports whether raw contains at least one markup tag.
func IsHTML(raw string) bool {
	return tagPattern.MatchString(raw)
}

// Text returns the visible text of raw. Plain text is returned unchanged.
func Text(raw string) string {
	if !IsHTML(raw) {
		return raw
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	doc.Find("script,style,noscript,template").Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml(" ")
		s.AfterHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}
