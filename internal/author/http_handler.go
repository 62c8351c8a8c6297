package author

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"paperpulse/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// List handles GET /api/authors/
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, authors)
}

// Get handles GET /api/authors/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusNotFound, "Resource not found")
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Author not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// Create handles POST /api/authors/
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Create
	if errs := httpx.DecodeJSON(r, &in); errs != nil {
		httpx.JSONValidationErrors(w, errs)
		return
	}
	if errs := httpx.ValidateStruct(in); errs != nil {
		httpx.JSONValidationErrors(w, errs)
		return
	}

	a, err := h.service.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			httpx.JSONError(w, http.StatusConflict, "Author with this email already exists")
			return
		}
		h.internalError(w, r, err)
		return
	}
	h.log.Info("author created", zap.Int("author_id", a.ID), zap.String("request_id", httpx.RequestIDFrom(r)))
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("author request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err),
	)
	httpx.JSONError(w, http.StatusInternalServerError, "Internal Server Error")
}
