// Package classifier maps uploaded file names to attachment MIME types and kinds.
package classifier

import (
	"errors"
	"strings"

	"attachapi/internal/model"
)

// ErrUnsupportedFileType is matched by every UnsupportedFileTypeError.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// UnsupportedFileTypeError carries the file name that no rule matched.
type UnsupportedFileTypeError struct {
	FileName string
}

func (e *UnsupportedFileTypeError) Error() string {
	return e.FileName + " has an unsupported file type"
}

func (e *UnsupportedFileTypeError) Is(target error) bool {
	return target == ErrUnsupportedFileType
}

type rule struct {
	suffix string
	mime   model.MimeType
}

// Evaluated in order, first match wins.
var rules = []rule{
	{".jpg", model.MimeJPEG},
	{".jpeg", model.MimeJPEG},
	{".gif", model.MimeGIF},
	{".png", model.MimePNG},
	{".pdf", model.MimePDF},
	{".doc", model.MimeWord},
	{".xls", model.MimeExcel},
	{".docx", model.MimeWordX},
	{".xlsx", model.MimeExcelX},
	{".rtf", model.MimeRTF},
	{".bmp", model.MimeBMP},
}

// Classify returns the MIME type and kind for fileName using case-insensitive
// suffix rules. The name needs at least one character before the extension.
func Classify(fileName string) (model.MimeType, model.Kind, error) {
	lower := strings.ToLower(fileName)
	for _, r := range rules {
		if len(lower) > len(r.suffix) && strings.HasSuffix(lower, r.suffix) {
			kind, _ := model.KindFor(r.mime)
			return r.mime, kind, nil
		}
	}
	return "", 0, &UnsupportedFileTypeError{FileName: fileName}
}

// Extensions lists the recognised suffixes in rule order.
func Extensions() []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.suffix)
	}
	return out
}
