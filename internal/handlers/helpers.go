package handlers

import (
	"context"
	"mime/multipart"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/anvesh42/foodblog/internal/media"
)

// bodyPolicy keeps the small tag set blog and comment bodies are allowed
// to carry; everything else is stripped at write time.
var bodyPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h3", "p", "strong", "br", "caption")
	return p
}()

// strictPolicy strips all HTML; used for search queries and profile
// fields.
var strictPolicy = bluemonday.StrictPolicy()

func sanitizeBody(s string) string {
	return bodyPolicy.Sanitize(s)
}

func sanitizeText(s string) string {
	return strictPolicy.Sanitize(s)
}

// formFile returns the uploaded file header, or nil when the field is
// absent (the file input is optional on every form that has one).
func formFile(c echo.Context, name string) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return fh
}

// uploadFormFile opens a multipart file and pushes it through the media
// adapter. A nil return with a nil error never happens: the caller only
// invokes this for a present file.
func uploadFormFile(ctx context.Context, up media.Uploader, fh *multipart.FileHeader) (*media.Asset, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return up.Upload(ctx, f, fh.Filename)
}
