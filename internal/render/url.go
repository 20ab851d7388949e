package render

import (
	"strings"

	"attachapi/internal/model"
)

var documentIcons = map[model.MimeType]string{
	model.MimePDF:    "images/icons/pdf_icon.gif",
	model.MimeWord:   "images/icons/DOC_icon.jpg",
	model.MimeWordX:  "images/icons/DOC_icon.jpg",
	model.MimeExcel:  "images/icons/excel_icon.gif",
	model.MimeExcelX: "images/icons/excel_icon.gif",
	model.MimeRTF:    "images/icons/rtf_icon.png",
}

// Path returns the route serving action for the attachment with the given id.
func Path(action Action, id string) string {
	return "/attachments/" + string(action) + "/" + id + "/"
}

// URLFor returns where a client can fetch a visual for a: the rendition route
// for images, or a static icon under mediaURL for documents. It returns "" when
// no icon is known for the MIME type.
func URLFor(a *model.Attachment, action Action, mediaURL string) string {
	if a.IsImage() {
		return Path(action, a.ID)
	}
	icon, ok := documentIcons[a.MimeType]
	if !ok {
		return ""
	}
	if mediaURL != "" && !strings.HasSuffix(mediaURL, "/") {
		mediaURL += "/"
	}
	return mediaURL + icon
}
