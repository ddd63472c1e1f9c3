// internal/adapters/in/http/console/handler/image_handler.go
package consoleHandler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	usecase "fisha/internal/application/usecase"
)

const maxUploadBytes = 32 << 20

// ImageHandler
//
//	POST /console/images  multipart/form-data, one or more "files" parts
type ImageHandler struct {
	uc *usecase.ProductUsecase
}

func NewImageHandler(uc *usecase.ProductUsecase) http.Handler {
	return &ImageHandler{uc: uc}
}

func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "image handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		writeErr(w, http.StatusBadRequest, "no files")
		return
	}

	files := make([]usecase.ImageFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeErr(w, http.StatusBadRequest, "cannot read "+fh.Filename)
			return
		}
		opened = append(opened, f)
		files = append(files, usecase.ImageFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}

	urls, err := h.uc.UploadImages(r.Context(), files)
	if err != nil {
		if errors.Is(err, usecase.ErrImageUploaderMissing) {
			writeErr(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		log.Printf("[console_image_handler] upload failed files=%d err=%v", len(files), err)
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"urls": urls})
}
