package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"

	"attachapi/internal/model"
)

// Action names a rendition of a stored attachment.
type Action string

const (
	ActionDownload  Action = "download"
	ActionPreview   Action = "preview"
	ActionThumbnail Action = "thumbnail"
)

const (
	PreviewMaxSize   = 550
	ThumbnailMaxSize = 100
)

var (
	ErrDecode            = errors.New("decode image")
	ErrUnknownAction     = errors.New("unknown render action")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// ParseAction validates an action name taken from a route.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionDownload, ActionPreview, ActionThumbnail:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

var subformats = map[string]imaging.Format{
	"jpeg":     imaging.JPEG,
	"png":      imaging.PNG,
	"gif":      imaging.GIF,
	"bmp":      imaging.BMP,
	"x-ms-bmp": imaging.BMP,
}

// Renderer produces the bytes served for one loaded attachment.
// It does not check the attachment kind: rendering a document as an image
// fails with ErrDecode.
type Renderer struct {
	attachment *model.Attachment
}

// New returns a Renderer for a.
func New(a *model.Attachment) *Renderer {
	return &Renderer{attachment: a}
}

// Render dispatches to the named action.
func (r *Renderer) Render(action Action) ([]byte, error) {
	switch action {
	case ActionDownload:
		return r.Download(), nil
	case ActionPreview:
		return r.Preview()
	case ActionThumbnail:
		return r.Thumbnail()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// Download returns the stored blob unchanged.
func (r *Renderer) Download() []byte {
	return r.attachment.Blob
}

// Preview returns the image scaled down to fit PreviewMaxSize.
func (r *Renderer) Preview() ([]byte, error) {
	return r.resize(PreviewMaxSize)
}

// Thumbnail returns the image scaled down to fit ThumbnailMaxSize.
func (r *Renderer) Thumbnail() ([]byte, error) {
	return r.resize(ThumbnailMaxSize)
}

func (r *Renderer) resize(maxSize int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(r.attachment.Blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, r.attachment.FileName, err)
	}

	format, err := formatFor(r.attachment.MimeType)
	if err != nil {
		return nil, err
	}

	// Fit never enlarges an image that already fits the box.
	out := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.attachment.MimeType, err)
	}
	return buf.Bytes(), nil
}

func formatFor(m model.MimeType) (imaging.Format, error) {
	_, sub, ok := strings.Cut(string(m), "/")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, m)
	}
	f, ok := subformats[sub]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, m)
	}
	return f, nil
}
