package httpadapter

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"social-sprout/internal/core/port"
)

type uploadResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// handleUploadAsset stores the multipart "file" field as reference material.
// An optional "campaignId" field links the asset right away.
func (h *Handler) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = &port.ValidationError{Fields: []port.FieldError{{Field: "file", Rule: "multipart"}}}
		}
		h.writeError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, &port.ValidationError{Fields: []port.FieldError{{Field: "file", Rule: "required"}}})
		return
	}
	defer file.Close()

	contentType, err := partContentType(file, header)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	asset, err := h.assets.UploadAsset(r.Context(), port.UploadAssetInput{
		CampaignID:  r.FormValue("campaignId"),
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		h.writeError(w, r, err, slog.String("filename", header.Filename))
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{ID: asset.ID, URL: asset.URL})
}

// partContentType trusts the declared type of the part unless it is missing
// or generic, in which case the first bytes are sniffed.
func partContentType(file multipart.File, header *multipart.FileHeader) (string, error) {
	ct := header.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}
	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
