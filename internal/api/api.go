// Package api defines the HTTP contract of the favi server and binds it to chi.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Health status values
const (
	Healthy   HealthResponseStatus = "healthy"
	Unhealthy HealthResponseStatus = "unhealthy"
)

// Error codes
const (
	InvalidParameter = "INVALID_PARAMETER"
	InvalidSize      = "INVALID_SIZE"
	DecodeError      = "DECODE_ERROR"
	PayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	InternalError    = "INTERNAL_ERROR"
)

type HealthResponseStatus string

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    HealthResponseStatus `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
	Uptime    *int                 `json:"uptime,omitempty"`
	Version   *string              `json:"version,omitempty"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error     string                  `json:"error"`
	Message   string                  `json:"message"`
	RequestId *string                 `json:"request_id,omitempty"`
	Details   *map[string]interface{} `json:"details,omitempty"`
}

// CreateIconParams are the optional query parameters of POST /icons/{size}
type CreateIconParams struct {
	// Filter overrides the configured resampling filter
	Filter *string `form:"filter,omitempty" json:"filter,omitempty"`

	// Fill overrides the configured padding color (#RRGGBB or #RRGGBBAA)
	Fill *string `form:"fill,omitempty" json:"fill,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (POST /icons/{size})
	CreateIcon(w http.ResponseWriter, r *http.Request, size int, params CreateIconParams)
}

// ErrorHandlerFunc reports a parameter binding failure
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// ChiServerOptions configures HandlerWithOptions
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	ErrorHandlerFunc ErrorHandlerFunc
}

// InvalidParamFormatError is passed to ErrorHandlerFunc when a parameter cannot be bound
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

type serverWrapper struct {
	handler          ServerInterface
	errorHandlerFunc ErrorHandlerFunc
}

func (sw *serverWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	sw.handler.GetHealth(w, r)
}

func (sw *serverWrapper) CreateIcon(w http.ResponseWriter, r *http.Request) {
	var size int
	err := runtime.BindStyledParameterWithOptions("simple", "size", chi.URLParam(r, "size"), &size,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		sw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "size", Err: err})
		return
	}

	var params CreateIconParams

	err = runtime.BindQueryParameter("form", true, false, "filter", r.URL.Query(), &params.Filter)
	if err != nil {
		sw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "filter", Err: err})
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "fill", r.URL.Query(), &params.Fill)
	if err != nil {
		sw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "fill", Err: err})
		return
	}

	sw.handler.CreateIcon(w, r, size, params)
}

// HandlerWithOptions mounts the API routes on options.BaseRouter, or on a new router
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := &serverWrapper{
		handler:          si,
		errorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health", wrapper.GetHealth)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/icons/{size}", wrapper.CreateIcon)
	})

	return r
}
