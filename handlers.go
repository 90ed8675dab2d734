package rambler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eliasdorneles/rambler/images"
	"github.com/eliasdorneles/rambler/posts"
	"github.com/eliasdorneles/rambler/views"
)

var (
	errInvalidJSON = errors.New("invalid JSON body")
	errNoFile      = errors.New("no file provided")
)

type errorResponse struct {
	Error string `json:"error"`
}

type saveResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
}

type createResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type createRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type saveRequest struct {
	Title  string  `json:"title"`
	Date   string  `json:"date"`
	Author *string `json:"author"`
	Status *string `json:"status"`
	Body   string  `json:"body"`
}

type previewRequest struct {
	Body string `json:"body"`
}

func (a *App) handleIndex(c echo.Context) error {
	return Render(c, views.Editor(views.EditorPage{
		SiteName:    a.Config.Site.Name,
		ImagePrefix: a.Config.ImageURLPrefix,
	}))
}

func (a *App) handleListPosts(c echo.Context) error {
	list, err := a.Posts.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (a *App) handleGetPost(c echo.Context) error {
	filename, err := filenameParam(c)
	if err != nil {
		return posts.ErrNotFound
	}
	post, err := a.Posts.Get(filename)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleSavePost(c echo.Context) error {
	filename, err := filenameParam(c)
	if err != nil {
		return posts.ErrInvalidFilename
	}
	in, err := decodeSaveRequest(c.Request().Body)
	if err != nil {
		return err
	}
	if _, err := a.Posts.Update(filename, in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saveResponse{Success: true, Filename: filename})
}

// filenameParam returns the decoded :filename parameter. Echo routes on
// the raw path only when the request carries one, and leaves the parameter
// escaped in that case.
func filenameParam(c echo.Context) (string, error) {
	name := c.Param("filename")
	if c.Request().URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

// decodeSaveRequest returns a nil input for an empty body, a JSON null or
// an empty object, so the store reports the missing payload.
func decodeSaveRequest(r io.Reader) (*posts.Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errInvalidJSON
	}
	if len(fields) == 0 {
		return nil, nil
	}
	var req saveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errInvalidJSON
	}
	return &posts.Input{
		Title:  req.Title,
		Date:   req.Date,
		Author: req.Author,
		Status: req.Status,
		Body:   req.Body,
	}, nil
}

func (a *App) handleCreatePost(c echo.Context) error {
	var req createRequest
	if err := decodeOptionalJSON(c.Request().Body, &req); err != nil {
		return err
	}
	post, err := a.Posts.Create(req.Title, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, createResponse{
		Success:  true,
		Filename: post.Filename,
		Title:    post.Title,
		Date:     post.Date,
		Status:   post.Status,
	})
}

func (a *App) handleListImages(c echo.Context) error {
	list, err := a.Images.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (a *App) handleUploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return errNoFile
	}
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	img, err := a.Images.Upload(file.Filename, src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, uploadResponse{Success: true, Filename: img.Filename, URL: img.URL})
}

func (a *App) handlePreview(c echo.Context) error {
	var req previewRequest
	if err := decodeOptionalJSON(c.Request().Body, &req); err != nil {
		return err
	}
	return Render(c, views.Preview(req.Body))
}

func (a *App) handleFeed(c echo.Context) error {
	published, err := a.Posts.Published()
	if err != nil {
		return err
	}
	return a.renderRSS(c, published)
}

func (a *App) handleAtom(c echo.Context) error {
	published, err := a.Posts.Published()
	if err != nil {
		return err
	}
	return a.renderAtom(c, published)
}

func (a *App) handleSitemap(c echo.Context) error {
	published, err := a.Posts.Published()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, published)
}

// decodeOptionalJSON decodes r into v, leaving v untouched for an empty body.
func decodeOptionalJSON(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errInvalidJSON
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, posts.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, posts.ErrNoPayload),
		errors.Is(err, posts.ErrInvalidFilename),
		errors.Is(err, images.ErrNoFilename),
		errors.Is(err, errInvalidJSON),
		errors.Is(err, errNoFile):
		return http.StatusBadRequest
	case errors.Is(err, images.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, images.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := statusFor(err)
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		msg = http.StatusText(code)
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: msg})
	}
	if err != nil {
		c.Logger().Errorf("write error response: %v", err)
	}
}
