// Package posts stores blog posts as individual markdown files with a
// frontmatter header, one file per post, keyed by filename.
//
// The store holds no locks. Two writers updating the same file race and the
// last write wins; two creates with the same title can both pass the
// existence check before either writes.
package posts

import (
	"errors"

	"github.com/labstack/gommon/log"
)

var (
	// ErrNotFound is returned when a post file does not exist or is not a regular file.
	ErrNotFound = errors.New("post not found")
	// ErrNoPayload is returned by Update when no fields were supplied.
	ErrNoPayload = errors.New("no data provided")
	// ErrInvalidFilename is returned when a filename is not a bare file name.
	ErrInvalidFilename = errors.New("invalid post filename")
)

const (
	// DefaultAuthor is written when a post does not name its author.
	DefaultAuthor = "Elias Dorneles"
	// DefaultTitle is used by Create when the title is empty.
	DefaultTitle = "New Blog Post"
	// DefaultBody is the placeholder body of a freshly created post.
	DefaultBody = "Write here..."
	// DateLayout is the conventional format of the Date field.
	DateLayout = "2006-01-02 15:04"

	StatusDraft     = "draft"
	StatusPublished = "published"

	ext = ".md"
)

// Summary is the listing view of a post.
type Summary struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

// Post is a fully loaded post file.
type Post struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Author   string `json:"author"`
	Status   string `json:"status"`
	Body     string `json:"body"`
}

// Input carries the fields that Update writes. A nil Author or Status
// falls back to the store default; an empty string is written as empty,
// which drops the key from the header.
type Input struct {
	Title  string
	Date   string
	Author *string
	Status *string
	Body   string
}

// Logger is the subset of echo.Logger the store reports through.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

func defaultLogger() Logger {
	return log.New("posts")
}
