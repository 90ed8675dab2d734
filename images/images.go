// Package images accepts image uploads for the editor: it validates the
// name, shrinks oversized pictures and stores them under a unique filename.
//
// WEBP is re-encoded lossless; the quality setting applies to JPEG only. A
// lossy WEBP wider than the max width usually comes out larger after the
// lossless re-encode, so the smaller-or-original rule keeps it at its
// uploaded size.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/labstack/gommon/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxWidth      = 1200
	DefaultQuality       = 85
	DefaultMaxUploadSize = 10 << 20 // 10MB
	DefaultURLPrefix     = "/static/images/"
)

var (
	// ErrNoFilename is returned when an upload carries no file name.
	ErrNoFilename = errors.New("no filename")
	// ErrUnsupportedType is returned when the extension is not an allowed image type.
	ErrUnsupportedType = errors.New("invalid file type, allowed: " + strings.Join(Extensions, ", "))
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
)

// Extensions lists the accepted image extensions, lowercase and without the dot.
var Extensions = []string{"png", "jpg", "jpeg", "gif", "webp", "svg"}

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)

// Image is a stored image and the URL it is served under.
type Image struct {
	Filename string    `json:"filename"`
	URL      string    `json:"url"`
	ModTime  time.Time `json:"-"`
}

// Logger is the subset of echo.Logger the intake reports through.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Intake lists and stores images in a single directory.
type Intake struct {
	dir           string
	urlPrefix     string
	maxWidth      int
	quality       int
	maxUploadSize int64
	logger        Logger
}

// Option configures an Intake.
type Option func(*Intake)

// WithURLPrefix sets the prefix joined with a filename to form its URL.
func WithURLPrefix(prefix string) Option {
	return func(in *Intake) { in.urlPrefix = prefix }
}

// WithMaxWidth sets the width above which uploads are scaled down.
func WithMaxWidth(w int) Option {
	return func(in *Intake) { in.maxWidth = w }
}

// WithQuality sets the JPEG encoding quality (1-100).
func WithQuality(q int) Option {
	return func(in *Intake) { in.quality = q }
}

// WithMaxUploadSize sets the largest accepted upload in bytes.
func WithMaxUploadSize(n int64) Option {
	return func(in *Intake) { in.maxUploadSize = n }
}

// WithLogger sets where processing decisions are reported.
func WithLogger(l Logger) Option {
	return func(in *Intake) {
		if l != nil {
			in.logger = l
		}
	}
}

// NewIntake returns an Intake storing images in dir.
func NewIntake(dir string, opts ...Option) *Intake {
	in := &Intake{
		dir:           dir,
		urlPrefix:     DefaultURLPrefix,
		maxWidth:      DefaultMaxWidth,
		quality:       DefaultQuality,
		maxUploadSize: DefaultMaxUploadSize,
		logger:        log.New("images"),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Dir returns the directory images are stored in.
func (in *Intake) Dir() string {
	return in.dir
}

// List returns every image in the directory, newest modification first.
func (in *Intake) List() ([]Image, error) {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Image{}, nil
		}
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	imgs := make([]Image, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !Allowed(name) {
			continue
		}
		info, err := os.Stat(filepath.Join(in.dir, name))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		imgs = append(imgs, Image{Filename: name, URL: in.urlPrefix + name, ModTime: info.ModTime()})
	}
	sort.SliceStable(imgs, func(i, j int) bool {
		if !imgs[i].ModTime.Equal(imgs[j].ModTime) {
			return imgs[i].ModTime.After(imgs[j].ModTime)
		}
		return imgs[i].Filename < imgs[j].Filename
	})
	return imgs, nil
}

// Upload validates and stores the image read from r under a sanitized,
// unique version of name. Nothing is written when validation fails.
func (in *Intake) Upload(name string, r io.Reader) (Image, error) {
	if name == "" {
		return Image{}, ErrNoFilename
	}
	if !Allowed(name) {
		return Image{}, ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(r, in.maxUploadSize+1))
	if err != nil {
		return Image{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > in.maxUploadSize {
		return Image{}, ErrTooLarge
	}

	filename := SanitizeFilename(name)
	data = in.process(data, extension(filename))

	if err := os.MkdirAll(in.dir, 0o755); err != nil {
		return Image{}, fmt.Errorf("create image dir: %w", err)
	}
	filename, err = in.uniqueFilename(filename)
	if err != nil {
		return Image{}, err
	}
	if err := os.WriteFile(filepath.Join(in.dir, filename), data, 0o644); err != nil {
		return Image{}, fmt.Errorf("write image: %w", err)
	}
	in.logger.Infof("stored image %s (%d bytes)", filename, len(data))
	return Image{Filename: filename, URL: in.urlPrefix + filename, ModTime: time.Now()}, nil
}

// process shrinks and re-encodes data. The original bytes are returned for
// SVG and GIF, on any decode or encode failure, and whenever the processed
// result is not strictly smaller.
func (in *Intake) process(data []byte, ext string) []byte {
	switch ext {
	case "jpg", "jpeg", "png", "webp":
	default:
		return data
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		in.logger.Warnf("decode image: %v; keeping original", err)
		return data
	}
	if ext == "jpg" || ext == "jpeg" {
		img = flattenOnWhite(img)
	}
	if b := img.Bounds(); b.Dx() > in.maxWidth {
		img = scaleToWidth(img, in.maxWidth)
		in.logger.Infof("resized image from %dx%d to %dx%d", b.Dx(), b.Dy(), img.Bounds().Dx(), img.Bounds().Dy())
	}

	var buf bytes.Buffer
	switch ext {
	case "jpg", "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: in.quality})
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, img)
	case "webp":
		err = nativewebp.Encode(&buf, img, nil)
	}
	if err != nil {
		in.logger.Warnf("encode %s: %v; keeping original", ext, err)
		return data
	}

	if buf.Len() >= len(data) {
		in.logger.Infof("keeping original: processed (%d) >= original (%d)", buf.Len(), len(data))
		return data
	}
	in.logger.Infof("compressed image: %d -> %d bytes", len(data), buf.Len())
	return buf.Bytes()
}

// uniqueFilename appends "_N" before the extension until the name is free.
func (in *Intake) uniqueFilename(filename string) (string, error) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	candidate := filename
	for n := 1; ; n++ {
		_, err := os.Lstat(filepath.Join(in.dir, candidate))
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat image: %w", err)
		}
		candidate = base + "_" + strconv.Itoa(n) + ext
	}
}

// scaleToWidth resizes img to width w, keeping the aspect ratio.
func scaleToWidth(img image.Image, w int) image.Image {
	b := img.Bounds()
	h := b.Dy() * w / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// flattenOnWhite composites img over a white background when it may carry
// transparency. JPEG has no alpha channel.
func flattenOnWhite(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}

// Allowed reports whether name has one of the accepted image extensions,
// compared case-insensitively.
func Allowed(name string) bool {
	ext := extension(name)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// extension returns the lowercased text after the last dot, or "".
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// SanitizeFilename strips directory components, turns spaces into
// underscores and drops characters other than letters, digits, '_', '-'
// and '.'.
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, " ", "_")
	return unsafeChars.ReplaceAllString(name, "")
}
