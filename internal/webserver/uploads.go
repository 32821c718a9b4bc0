package webserver

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Robo-91/grocery-inventory/internal/catalog"
)

// Upload rejections shown to the operator as field errors.
var (
	ErrNoFile       = errors.New("An image file is required!")
	ErrFileTooLarge = errors.New("The image file is too large!")
	ErrNotAnImage   = errors.New("The uploaded file must be an image!")
)

// UploadStore reads uploaded images out of multipart requests and writes
// accepted ones under the public images directory. The request file is
// read exactly once, capped at maxBytes, and only committed to disk after
// the rest of the form validated.
type UploadStore struct {
	dir      string
	maxBytes int64
	node     *snowflake.Node
}

func NewUploadStore(dir string, maxBytes int64) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create image directory")
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, errors.Wrap(err, "init snowflake node")
	}
	return &UploadStore{dir: dir, maxBytes: maxBytes, node: node}, nil
}

// Read pulls the uploaded file out of the request and sniffs its content
// type. The returned image is in memory only; call Commit to persist the
// public copy.
func (u *UploadStore) Read(c echo.Context, field string) (catalog.Image, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return catalog.Image{}, ErrNoFile
	}
	if fh.Size > u.maxBytes {
		return catalog.Image{}, ErrFileTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return catalog.Image{}, errors.Wrap(err, "open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, u.maxBytes+1))
	if err != nil {
		return catalog.Image{}, errors.Wrap(err, "read uploaded file")
	}
	if int64(len(data)) > u.maxBytes {
		return catalog.Image{}, ErrFileTooLarge
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return catalog.Image{}, ErrNotAnImage
	}
	return catalog.Image{Data: data, ContentType: ct}, nil
}

// Commit writes the image to the public images directory under a
// collision-free generated name and records the name on the image.
func (u *UploadStore) Commit(img *catalog.Image, field string) error {
	name := fmt.Sprintf("%s-%s%s", field, u.node.Generate(), extForType(img.ContentType))
	if err := os.WriteFile(filepath.Join(u.dir, name), img.Data, 0o644); err != nil {
		return errors.Wrap(err, "write public image")
	}
	img.File = name
	return nil
}

// IsUploadReject reports whether err is an operator-facing upload
// rejection rather than a server failure.
func IsUploadReject(err error) bool {
	return errors.Is(err, ErrNoFile) || errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrNotAnImage)
}

func extForType(ct string) string {
	switch ct {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".img"
	}
}
