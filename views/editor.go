// Package views holds the HTML components served by the editor.
package views

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// EditorPage carries what the editor shell needs to boot.
type EditorPage struct {
	SiteName    string
	ImagePrefix string
}

var editorTmpl = template.Must(template.New("editor").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.SiteName}} · Editor</title>
<link rel="stylesheet" href="/static/editor.css">
</head>
<body data-image-prefix="{{.ImagePrefix}}">
<aside id="sidebar">
  <header>
    <h1>{{.SiteName}}</h1>
    <button id="new-post" type="button">New post</button>
  </header>
  <ul id="post-list"></ul>
  <section id="images">
    <h2>Images</h2>
    <input id="image-upload" type="file" accept=".png,.jpg,.jpeg,.gif,.webp,.svg">
    <ul id="image-list"></ul>
  </section>
</aside>
<main id="editor">
  <form id="post-form" hidden>
    <input id="title" name="title" placeholder="Title">
    <div class="meta">
      <input id="date" name="date" placeholder="YYYY-MM-DD HH:MM">
      <input id="author" name="author" placeholder="Author">
      <select id="status" name="status">
        <option value="draft">draft</option>
        <option value="published">published</option>
      </select>
      <span id="save-state"></span>
    </div>
    <div class="panes">
      <textarea id="body" name="body" spellcheck="true"></textarea>
      <div id="preview"></div>
    </div>
  </form>
</main>
<script src="/static/editor.js"></script>
</body>
</html>
`))

// Editor renders the editor shell. Posts and images are loaded by the
// script through the JSON API.
func Editor(page EditorPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return editorTmpl.Execute(w, page)
	})
}
