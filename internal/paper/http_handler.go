package paper

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

// List handles GET /api/papers/
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	papers, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, papers)
}

// Get handles GET /api/papers/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusNotFound, "Resource not found")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Paper not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Create handles POST /api/papers/. A new paper is answered with 201; a
// DOI that is already catalogued returns the stored paper with 200.
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

	p, created, err := h.service.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrAuthorNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Author not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.log.Info("paper created", zap.Int("paper_id", p.ID), zap.String("request_id", httpx.RequestIDFrom(r)))
	}
	httpx.JSON(w, status, p)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("paper request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err),
	)
	httpx.JSONError(w, http.StatusInternalServerError, "Internal Server Error")
}
