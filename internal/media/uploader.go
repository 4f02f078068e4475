package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned for files whose extension is not on the
// image allow-list.
var ErrUnsupportedType = errors.New("only image files are allowed")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".jfif": true,
}

// AllowedImage reports whether the file name carries an allowed image
// extension, case-insensitively.
func AllowedImage(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Asset is a stored media file: a stable URL for rendering plus the
// reference needed to delete it later.
type Asset struct {
	URL      string
	PublicID string
}

// Uploader pushes files to the external media host. Upload must reject
// non-image file names with ErrUnsupportedType before any network call.
// Destroy with an unknown id is the host's problem, not the caller's;
// callers treat destroy failures as best-effort cleanup.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}
