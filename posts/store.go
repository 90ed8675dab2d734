package posts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eliasdorneles/rambler/frontmatter"
	"github.com/eliasdorneles/rambler/slug"
)

// Store reads and writes post files in a single directory.
type Store struct {
	dir    string
	author string
	now    func() time.Time
	logger Logger
}

// Option configures a Store.
type Option func(*Store)

// WithAuthor sets the author written when a post does not name one.
func WithAuthor(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.author = name
		}
	}
}

// WithClock overrides the time source used to date new posts.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets where skipped files and writes are reported.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns a Store over dir. The directory is created lazily on
// the first write.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		author: DefaultAuthor,
		now:    time.Now,
		logger: defaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// List returns a summary of every post, most recent date first. Posts
// without a date sort last; equal dates are ordered by filename. Files that
// cannot be read are logged and skipped.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("read post dir: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}
		path := filepath.Join(s.dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warnf("skipping %s: %v", path, err)
			continue
		}
		meta, _ := frontmatter.Parse(string(content))
		sum := Summary{
			Filename: name,
			Title:    strings.TrimSuffix(name, ext),
			Date:     meta["date"],
			Status:   StatusPublished,
		}
		if title, ok := meta["title"]; ok {
			sum.Title = title
		}
		if status, ok := meta["status"]; ok {
			sum.Status = status
		}
		summaries = append(summaries, sum)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Date != summaries[j].Date {
			return summaries[i].Date > summaries[j].Date
		}
		return summaries[i].Filename < summaries[j].Filename
	})
	return summaries, nil
}

// Get loads a single post by filename.
func (s *Store) Get(filename string) (Post, error) {
	if !validFilename(filename) {
		return Post{}, ErrNotFound
	}
	path := filepath.Join(s.dir, filename)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("stat post: %w", err)
	}
	if !info.Mode().IsRegular() {
		return Post{}, ErrNotFound
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Post{}, fmt.Errorf("read post: %w", err)
	}
	meta, body := frontmatter.Parse(string(content))
	return Post{
		Filename: filename,
		Title:    meta["title"],
		Date:     meta["date"],
		Author:   meta["author"],
		Status:   meta["status"],
		Body:     body,
	}, nil
}

// Create writes a new draft post titled title. The filename is the title's
// slug; when that file exists a "-N" suffix is added, counting from 1.
func (s *Store) Create(title, body string) (Post, error) {
	if title == "" {
		title = DefaultTitle
	}
	if body == "" {
		body = DefaultBody
	}
	base := slug.Make(title)
	if base == "" {
		base = "untitled"
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Post{}, fmt.Errorf("create post dir: %w", err)
	}
	filename := base + ext
	for n := 1; ; n++ {
		taken, err := s.exists(filename)
		if err != nil {
			return Post{}, err
		}
		if !taken {
			break
		}
		filename = base + "-" + strconv.Itoa(n) + ext
	}

	p := Post{
		Filename: filename,
		Title:    title,
		Date:     s.now().Format(DateLayout),
		Author:   s.author,
		Status:   StatusDraft,
		Body:     body,
	}
	if err := s.write(p); err != nil {
		return Post{}, err
	}
	s.logger.Infof("created post %s", filename)
	return p, nil
}

// Update replaces the header and body of filename with in. The file is
// written whether or not it existed before.
func (s *Store) Update(filename string, in *Input) (Post, error) {
	if in == nil {
		return Post{}, ErrNoPayload
	}
	if !validFilename(filename) {
		return Post{}, ErrInvalidFilename
	}
	p := Post{
		Filename: filename,
		Title:    in.Title,
		Date:     in.Date,
		Author:   s.author,
		Status:   StatusDraft,
		Body:     in.Body,
	}
	if in.Author != nil {
		p.Author = *in.Author
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Post{}, fmt.Errorf("create post dir: %w", err)
	}
	if err := s.write(p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Published returns every post whose status is "published", in List order.
// Posts without a status count as published.
func (s *Store) Published() ([]Post, error) {
	summaries, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []Post
	for _, sum := range summaries {
		if sum.Status != StatusPublished {
			continue
		}
		p, err := s.Get(sum.Filename)
		if err != nil {
			s.logger.Warnf("skipping %s: %v", sum.Filename, err)
			continue
		}
		p.Status = StatusPublished
		if p.Title == "" {
			p.Title = sum.Title
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) write(p Post) error {
	content := frontmatter.Document(frontmatter.Metadata{
		"title":  p.Title,
		"date":   p.Date,
		"author": p.Author,
		"status": p.Status,
	}, p.Body)
	if err := os.WriteFile(filepath.Join(s.dir, p.Filename), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write post: %w", err)
	}
	return nil
}

func (s *Store) exists(filename string) (bool, error) {
	_, err := os.Lstat(filepath.Join(s.dir, filename))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat post: %w", err)
	}
}

// validFilename reports whether name refers to a file directly inside the
// store directory.
func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && name == filepath.Base(name)
}
