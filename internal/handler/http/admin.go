package http

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/internal/service"
	apperrors "github.com/bhanu79755/Shopbuy/pkg/errors"
	"github.com/bhanu79755/Shopbuy/pkg/httputil"
	"github.com/bhanu79755/Shopbuy/pkg/pagination"
	"github.com/bhanu79755/Shopbuy/pkg/validator"
)

// AdminHandler serves the product admin table and image replacement.
type AdminHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

func NewAdminHandler(catalog *service.CatalogService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{catalog: catalog, logger: logger}
}

// SetImageRequest is the JSON body for replacing an image by reference.
type SetImageRequest struct {
	ImageURL string `json:"image_url" validate:"notblank"`
}

// List handles GET /api/v1/admin/products?q=&page=
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r, service.AdminPerPage)
	httputil.WriteData(w, http.StatusOK, h.catalog.AdminList(r.URL.Query().Get("q"), params))
}

// SetImage handles PUT /api/v1/admin/products/{id}/image. It accepts either a
// JSON {"image_url"} body or a multipart upload in the "file" field, which is
// stored inline as a data URI.
func (h *AdminHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var image string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		uri, err := h.readUpload(w, r)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		image = uri
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		var req SetImageRequest
		if err := validator.DecodeAndValidate(r, &req); err != nil {
			httputil.WriteValidationError(w, r, err)
			return
		}
		image = req.ImageURL
	}

	product, err := h.catalog.SetProductImage(r.Context(), id, image)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, product)
}

// readUpload reads the "file" part, checks its sniffed type and returns it as
// a data URI.
func (h *AdminHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(domain.MaxImageSize); err != nil {
		return "", apperrors.InvalidInput("failed to parse multipart form: " + err.Error())
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", apperrors.InvalidInput("file is required")
	}
	defer file.Close()

	if header.Size > domain.MaxImageSize {
		return "", apperrors.InvalidInput(fmt.Sprintf("file size %d exceeds maximum allowed size of %d bytes", header.Size, domain.MaxImageSize))
	}

	data, err := io.ReadAll(io.LimitReader(file, domain.MaxImageSize+1))
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("read upload: %w", err))
	}
	if len(data) == 0 {
		return "", apperrors.InvalidInput("file is empty")
	}
	if int64(len(data)) > domain.MaxImageSize {
		return "", apperrors.InvalidInput("file is too large")
	}

	detected := mimetype.Detect(data)
	if !domain.IsAllowedImageType(detected.String()) {
		return "", apperrors.InvalidInput(fmt.Sprintf("content type %q is not allowed", detected.String()))
	}
	return domain.DataURI(detected.String(), data), nil
}
