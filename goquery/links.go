// Package goquery post-processes rendered HTML using goquery.
package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docver"
)

// Ensure LinkRenderer implements docver.Renderer at compile time.
var _ docver.Renderer = (*LinkRenderer)(nil)

// External anchor attributes.
const (
	ExternalTarget = "_blank"
	ExternalRel    = "noopener noreferrer"
)

// LinkRenderer decorates a Renderer and rewrites anchors in its output:
// external links open in a new tab, and relative links to markdown sources
// drop their ".md" extension so they address the resolved document.
type LinkRenderer struct {
	Renderer docver.Renderer
}

// NewLinkRenderer creates a LinkRenderer wrapping r.
func NewLinkRenderer(r docver.Renderer) *LinkRenderer {
	return &LinkRenderer{Renderer: r}
}

// Render renders doc with the wrapped renderer and rewrites its anchors.
func (r *LinkRenderer) Render(ctx context.Context, doc *docver.RawDocument) (string, error) {
	html, err := r.Renderer.Render(ctx, doc)
	if err != nil {
		return "", err
	}
	return RewriteLinks(html)
}

// RewriteLinks applies the LinkRenderer anchor rules to an HTML fragment.
func RewriteLinks(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return html, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", docver.Errorf(docver.EINVALID, "failed to parse HTML: %v", err)
	}

	changed := false
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}

		if docver.IsExternalURL(href) {
			sel.SetAttr("target", ExternalTarget)
			sel.SetAttr("rel", ExternalRel)
			changed = true
			return
		}

		if rewritten, ok := stripMarkdownExt(href); ok {
			sel.SetAttr("href", rewritten)
			changed = true
		}
	})

	if !changed {
		return html, nil
	}

	// goquery wraps fragments in html/head/body; return only the fragment.
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", docver.Errorf(docver.EINTERNAL, "failed to serialize HTML: %v", err)
	}
	return out, nil
}

// stripMarkdownExt turns "guides/setup.md#install" into "guides/setup#install".
func stripMarkdownExt(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Path == "" {
		return "", false
	}
	if !strings.HasSuffix(strings.ToLower(u.Path), ".md") {
		return "", false
	}
	u.Path = u.Path[:len(u.Path)-len(".md")]
	return u.String(), true
}

// isNonHTTPLink checks if a href is a non-HTTP link that must be left as is.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
