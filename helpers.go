package rambler

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/eliasdorneles/rambler/posts"
)

var placeholder = regexp.MustCompile(`\{(\w+)(?::([^}]*))?\}`)

// postDateLayouts are tried in order when reading a post's Date field.
var postDateLayouts = []string{
	posts.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsoluteURL resolves the site-relative rel against base.
func AbsoluteURL(base, rel string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rel, "/")
}

// ParsePostDate reads a post Date field in loc.
func ParsePostDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range postDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized post date %q", s)
}

// ArticleURL expands a site-relative article URL pattern for p, in the
// style of the static site generator settings:
//
//	{date:%Y}/{date:%m}/{date:%d}/{name}.html
//
// {name} and {slug} are the filename without its extension; {date:FMT}
// formats the post date with C strftime directives. An error is returned
// when the pattern needs a date the post does not have, or names an
// unknown placeholder.
func ArticleURL(pattern string, p posts.Post, loc *time.Location) (string, error) {
	name := strings.TrimSuffix(p.Filename, path.Ext(p.Filename))
	var date time.Time
	var firstErr error
	out := placeholder.ReplaceAllStringFunc(pattern, func(m string) string {
		parts := placeholder.FindStringSubmatch(m)
		switch parts[1] {
		case "name", "slug":
			return name
		case "date":
			if date.IsZero() {
				t, err := ParsePostDate(p.Date, loc)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return ""
				}
				date = t
			}
			return strftime.Format(parts[2], date)
		default:
			if firstErr == nil {
				firstErr = fmt.Errorf("unknown placeholder %q", m)
			}
			return ""
		}
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
