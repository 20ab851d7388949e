package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"attachapi/internal/classifier"
	"attachapi/internal/form"
	"attachapi/internal/model"
	"attachapi/internal/render"
	"attachapi/internal/service"
)

const successBody = "success"

// attachmentView is an attachment as listed for its owner. The blob is never included.
type attachmentView struct {
	model.Attachment
	DownloadURL string `json:"download_url"`
	PreviewURL  string `json:"preview_url"`
	ThumbURL    string `json:"thumb_url"`
}

// CreateAttachment godoc
// @Summary Attach a file to an owner
// @Tags attachments
// @Accept multipart/form-data
// @Param ownerType path string true "Owner type"
// @Param ownerID path string true "Owner ID"
// @Param form query string false "Form variant" Enums(required, optional, tagged)
// @Param description formData string false "Description"
// @Param tag formData string false "Tag"
// @Param attachment formData file false "File (.jpg .jpeg .gif .png .pdf .doc .xls .docx .xlsx .rtf .bmp)"
// @Param redirect formData string false "Redirect target on success"
// @Success 303
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Failure 422 {object} formErrorPayload
// @Router /owners/{ownerType}/{ownerID}/attachments [post]
func CreateAttachment(svc service.AttachmentService, defaultVariant form.Variant, redirectURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		variant, err := form.ParseVariant(c.Query("form"), defaultVariant)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "unknown form variant")
		}

		in, closeFile, err := readInput(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFile()

		sub, err := form.Validate(variant, in)
		if err != nil {
			var ferrs form.Errors
			if errors.As(err, &ferrs) {
				return writeFormErrors(c, variant, in, ferrs)
			}
			return err
		}

		_, err = svc.Create(c.UserContext(), c.Params("ownerType"), c.Params("ownerID"), sub)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrOwnerNotFound):
			return writeError(c, fiber.StatusNotFound, "OWNER_NOT_FOUND", "owner not found")
		case errors.Is(err, service.ErrUploadTooLarge):
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "attachment exceeds size limit")
		case errors.Is(err, classifier.ErrUnsupportedFileType):
			return writeFormErrors(c, variant, in, form.Errors{{Field: form.FieldAttachment, Message: err.Error()}})
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.Redirect(redirectTarget(c.FormValue("redirect"), redirectURL), fiber.StatusSeeOther)
	}
}

// readInput collects the form fields. A missing or unreadable multipart file
// part means no file was sent.
func readInput(c *fiber.Ctx) (form.Input, func(), error) {
	in := form.Input{
		Description: c.FormValue(form.FieldDescription),
		Tag:         c.FormValue(form.FieldTag),
	}

	fh, err := c.FormFile(form.FieldAttachment)
	if err != nil {
		return in, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return in, func() {}, err
	}
	in.File = &form.File{Name: fh.Filename, Size: fh.Size, Content: f}
	return in, func() { _ = f.Close() }, nil
}

// redirectTarget accepts only local absolute paths.
func redirectTarget(requested, fallback string) string {
	if strings.HasPrefix(requested, "/") && !strings.HasPrefix(requested, "//") && !strings.Contains(requested, `\`) {
		return requested
	}
	return fallback
}

// ServeAttachment godoc
// @Summary Serve attachment bytes
// @Description download returns the stored bytes; preview and thumbnail return
// @Description the image scaled to fit 550 and 100 pixels.
// @Tags attachments
// @Produce octet-stream
// @Param action path string true "Rendition" Enums(download, preview, thumbnail)
// @Param id path string true "Attachment ID"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /attachments/{action}/{id}/ [get]
func ServeAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		action, err := render.ParseAction(c.Params("action"))
		if err != nil {
			return fiber.ErrNotFound
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		a, out, err := svc.Render(c.UserContext(), id, action)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "attachment not found")
			}
			return err
		}

		if action == render.ActionDownload {
			c.Attachment(a.FileName)
		}
		c.Set(fiber.HeaderContentType, string(a.MimeType))
		return c.Status(fiber.StatusOK).Send(out)
	}
}

// EditDescription godoc
// @Summary Replace an attachment description
// @Description Does nothing unless both id and description are present.
// @Tags attachments
// @Accept x-www-form-urlencoded
// @Produce plain
// @Param id formData string false "Attachment ID"
// @Param description formData string false "New description"
// @Success 200 {string} string "success"
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /attachments/edit/ [post]
func EditDescription(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, hasID := requestParam(c, "id")
		description, hasDescription := requestParam(c, form.FieldDescription)
		if hasID && hasDescription {
			if _, err := uuid.Parse(id); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
			}
			if err := svc.EditDescription(c.UserContext(), id, description); err != nil {
				return mutationError(c, err)
			}
		}
		return c.Type("txt").SendString(successBody)
	}
}

// DeleteAttachment godoc
// @Summary Delete an attachment
// @Description Does nothing when id is absent.
// @Tags attachments
// @Accept x-www-form-urlencoded
// @Produce plain
// @Param id formData string false "Attachment ID"
// @Success 200 {string} string "success"
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /attachments/delete/ [post]
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := requestParam(c, "id"); ok {
			if _, err := uuid.Parse(id); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
			}
			if err := svc.Delete(c.UserContext(), id); err != nil {
				return mutationError(c, err)
			}
		}
		return c.Type("txt").SendString(successBody)
	}
}

func mutationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "attachment not found")
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// requestParam looks key up in the form body, then the query string. Presence
// matters, not content: an empty value is still present.
func requestParam(c *fiber.Ctx, key string) (string, bool) {
	if args := c.Request().PostArgs(); args.Has(key) {
		return string(args.Peek(key)), true
	}
	if mf, err := c.MultipartForm(); err == nil {
		if v := mf.Value[key]; len(v) > 0 {
			return v[0], true
		}
	}
	if args := c.Request().URI().QueryArgs(); args.Has(key) {
		return string(args.Peek(key)), true
	}
	return "", false
}

// ListOwnerAttachments godoc
// @Summary List an owner's attachments
// @Tags attachments
// @Produce json
// @Param ownerType path string true "Owner type"
// @Param ownerID path string true "Owner ID"
// @Success 200 {array} attachmentView
// @Router /owners/{ownerType}/{ownerID}/attachments [get]
func ListOwnerAttachments(svc service.AttachmentService, mediaURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := model.Owner{Type: c.Params("ownerType"), ID: c.Params("ownerID")}

		items, err := svc.ListForOwner(c.UserContext(), owner)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		views := make([]attachmentView, 0, len(items))
		for i := range items {
			a := &items[i]
			views = append(views, attachmentView{
				Attachment:  *a,
				DownloadURL: render.Path(render.ActionDownload, a.ID),
				PreviewURL:  render.URLFor(a, render.ActionPreview, mediaURL),
				ThumbURL:    render.URLFor(a, render.ActionThumbnail, mediaURL),
			})
		}
		return c.JSON(views)
	}
}
