package review

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	urlPattern   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	spacePattern = regexp.MustCompile(`[ \t]+`)

	// bare contractions scraped without apostrophes
	spellingFixes = strings.NewReplacer(
		" dont ", " don't ", " cant ", " can't ", " wont ", " won't ",
		" isnt ", " isn't ", " doesnt ", " doesn't ", " didnt ", " didn't ",
	)
)

var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
}

// CleanText strips markup from scraped review text. Entities are decoded,
// block elements become line breaks, URLs and e-mail addresses are removed
// and runs of blanks are collapsed.
func CleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = stripHTML(s)
	}
	s = urlPattern.ReplaceAllString(s, "")
	s = emailPattern.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spacePattern.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		line = strings.TrimSpace(spellingFixes.Replace(" " + line + " "))
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			buf.WriteByte('\n')
		}
	}
	walk(doc)
	return buf.String()
}
