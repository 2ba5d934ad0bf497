package markdown

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	blankRuns = regexp.MustCompile(`\n{3,}`)
	spaceRuns = regexp.MustCompile(`\s+`)
)

// Link is an anchor found on a page, resolved against the page URL.
type Link struct {
	URL  string
	Text string
}

// ConvertHTMLToMarkdown renders the readable part of a page as markdown.
// Scripts, styling and navigation chrome are dropped; contact details in
// headers and footers are kept because that is often where they live.
func ConvertHTMLToMarkdown(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	sel.Find("script, style, noscript, iframe, svg, template").Remove()
	sel.Find(`[aria-modal], [aria-label*="cookie" i]`).Remove()
	sel.Find("[class], [id]").Each(func(_ int, s *goquery.Selection) {
		classVal, _ := s.Attr("class")
		idVal, _ := s.Attr("id")
		lower := strings.ToLower(classVal + " " + idVal)
		for _, kw := range []string{"cookie", "consent", "advert", "popup", "modal"} {
			if strings.Contains(lower, kw) {
				s.Remove()
				return
			}
		}
	})

	body, err := sel.Html()
	if err != nil {
		return ""
	}
	out, err := md.NewConverter("", true, nil).ConvertString(body)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(out, "\n\n"))
}

// ExtractLinks returns the page's http(s) links in document order, resolved
// against base and de-duplicated. Fragment-only and javascript: links are
// skipped; mailto: links are kept since they carry email addresses.
func ExtractLinks(html, base string) []Link {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	baseURL, _ := url.Parse(base)

	seen := map[string]bool{}
	var links []Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if baseURL != nil {
			u = baseURL.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "mailto" {
			return
		}
		u.Fragment = ""
		abs := u.String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		text := strings.TrimSpace(spaceRuns.ReplaceAllString(s.Text(), " "))
		links = append(links, Link{URL: abs, Text: text})
	})
	return links
}

// Truncate cuts s to at most max bytes on a rune boundary, marking the cut.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n...[content truncated]"
}
