package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// MarkdownHTML renders md to HTML and strips anything a user-generated
// content policy would not allow.
func MarkdownHTML(md string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(ugcPolicy.SanitizeBytes(markdown.Render(doc, renderer)))
}

// Preview returns the sanitized HTML fragment for a post body.
func Preview(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<article class="preview">`+MarkdownHTML(md)+`</article>`)
		return err
	})
}
