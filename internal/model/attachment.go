package model

import "time"

// Kind is the coarse category of an attachment. Values match the persisted small integer.
type Kind int

const (
	KindDocument Kind = 1
	KindImage    Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// MimeType is one of the recognised attachment content types.
type MimeType string

const (
	MimeJPEG   MimeType = "image/jpeg"
	MimePNG    MimeType = "image/png"
	MimeGIF    MimeType = "image/gif"
	MimePDF    MimeType = "application/pdf"
	MimeWord   MimeType = "application/msword"
	MimeWordX  MimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeExcel  MimeType = "application/vnd.ms-excel"
	MimeExcelX MimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeRTF    MimeType = "text/richtext"
	MimeBMP    MimeType = "image/x-ms-bmp"
)

var mimeKinds = map[MimeType]Kind{
	MimeJPEG:   KindImage,
	MimePNG:    KindImage,
	MimeGIF:    KindImage,
	MimeBMP:    KindImage,
	MimePDF:    KindDocument,
	MimeWord:   KindDocument,
	MimeWordX:  KindDocument,
	MimeExcel:  KindDocument,
	MimeExcelX: KindDocument,
	MimeRTF:    KindDocument,
}

// KindFor returns the attachment kind for a MIME type. The second result is false
// for MIME types outside the recognised set.
func KindFor(m MimeType) (Kind, bool) {
	k, ok := mimeKinds[m]
	return k, ok
}

// Owner identifies the record an attachment belongs to.
type Owner struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Attachment is a file attached to an arbitrary owner record.
// Blob is only populated when the record was loaded by ID.
type Attachment struct {
	ID          string    `json:"id"`
	OwnerType   string    `json:"owner_type"`
	OwnerID     string    `json:"owner_id"`
	MimeType    MimeType  `json:"mimetype"`
	Kind        Kind      `json:"attachment_type"`
	Description *string   `json:"description"`
	Tag         *string   `json:"tag,omitempty"`
	FileName    string    `json:"file_name"`
	Blob        []byte    `json:"-"`
	AttachedAt  time.Time `json:"attached_at"`
}

// Owner returns the owner reference of the attachment.
func (a *Attachment) Owner() Owner {
	return Owner{Type: a.OwnerType, ID: a.OwnerID}
}

// IsImage reports whether the attachment can be rendered as a preview or thumbnail.
func (a *Attachment) IsImage() bool {
	return a.Kind == KindImage
}
