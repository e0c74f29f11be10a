package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/kiesman99/favi/internal/api"
	"github.com/kiesman99/favi/pkg/icon"
)

// Request limits
const (
	// MaxUploadBytes caps the size of an uploaded source image
	MaxUploadBytes = 32 << 20

	// MaxIconSize is the largest side length a single request may ask for
	MaxIconSize = 1024

	// MaxSourcePixels caps the decoded dimensions of an uploaded image
	MaxSourcePixels = 40_000_000
)

// Server implements api.ServerInterface
type Server struct {
	startTime time.Time
	version   string
	defaults  icon.Options
}

// NewServer creates a new server instance rendering with the given default options
func NewServer(version string, defaults icon.Options) *Server {
	return &Server{
		startTime: time.Now(),
		version:   version,
		defaults:  defaults,
	}
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	uptime := int(time.Since(s.startTime).Seconds())

	response := api.HealthResponse{
		Status:    api.Healthy,
		Timestamp: time.Now(),
		Uptime:    &uptime,
		Version:   &s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}

// CreateIcon squares the uploaded image and returns it resized to size x size as PNG
func (s *Server) CreateIcon(w http.ResponseWriter, r *http.Request, size int, params api.CreateIconParams) {
	requestID := requestIDFrom(r)

	opts, err := s.resolveOptions(params)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, api.InvalidParameter, err.Error(), &requestID, nil)
		return
	}

	// reject before reading the body
	if size <= 0 || size > MaxIconSize {
		s.writeErrorResponse(w, http.StatusBadRequest, api.InvalidSize,
			fmt.Sprintf("size must be between 1 and %d", MaxIconSize), &requestID,
			map[string]interface{}{"size": size})
		return
	}

	img, err := icon.DecodeBounded(http.MaxBytesReader(w, r.Body, MaxUploadBytes), MaxSourcePixels)
	if err != nil {
		s.handleRenderError(w, err, &requestID)
		return
	}

	rendered, err := icon.Render(img, size, opts)
	if err != nil {
		s.handleRenderError(w, err, &requestID)
		return
	}

	data, err := icon.EncodePNG(rendered)
	if err != nil {
		s.handleRenderError(w, err, &requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", icon.BuildFilename(opts.Filename, size)))
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// HandleParamError reports a request whose parameters could not be bound
func (s *Server) HandleParamError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestIDFrom(r)
	code := api.InvalidParameter

	var paramErr *api.InvalidParamFormatError
	if errors.As(err, &paramErr) && paramErr.ParamName == "size" {
		code = api.InvalidSize
	}
	s.writeErrorResponse(w, http.StatusBadRequest, code, err.Error(), &requestID, nil)
}

// resolveOptions applies query overrides to the server defaults
func (s *Server) resolveOptions(params api.CreateIconParams) (icon.Options, error) {
	opts := s.defaults

	if params.Filter != nil {
		filter, err := icon.ParseFilter(*params.Filter)
		if err != nil {
			return opts, err
		}
		opts.Filter = filter
	}

	if params.Fill != nil {
		fill, err := icon.ParseColor(*params.Fill)
		if err != nil {
			return opts, err
		}
		opts.Fill = fill
	}

	return opts, nil
}

// handleRenderError maps the icon error taxonomy to HTTP responses
func (s *Server) handleRenderError(w http.ResponseWriter, err error, requestID *string) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, api.PayloadTooLarge,
			"Uploaded image is too large", requestID, map[string]interface{}{
				"limit_bytes": maxBytesErr.Limit,
			})
	case errors.Is(err, icon.ErrTooLarge):
		s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, api.PayloadTooLarge,
			err.Error(), requestID, map[string]interface{}{
				"limit_pixels": MaxSourcePixels,
			})
	case errors.Is(err, icon.ErrInvalidSize):
		s.writeErrorResponse(w, http.StatusBadRequest, api.InvalidSize, err.Error(), requestID, nil)
	case errors.Is(err, icon.ErrDecode):
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, api.DecodeError,
			"Request body is not a supported image", requestID, nil)
	default:
		log.Printf("Error rendering icon: %v", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, api.InternalError,
			"Internal server error", requestID, nil)
	}
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string, requestID *string, details map[string]interface{}) {
	response := api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestId: requestID,
	}

	if details != nil {
		response.Details = &details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// requestIDFrom returns the chi request ID, or generates one when the middleware is absent
func requestIDFrom(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}
