// Package http provides HTTP server and handler implementations.
//
// This file implements a small builder for responses so handlers set
// status, headers and body in one consistent place.

package http

import (
	"html/template"
	"net/http"
	"strconv"
)

// ResponseBuilder provides a fluent API for building responses.
type ResponseBuilder struct {
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// NoStore forbids caching of the response.
func (b *ResponseBuilder) NoStore() *ResponseBuilder {
	return b.Header("Cache-Control", "no-store")
}

// Body sets the response body with the given content type.
func (b *ResponseBuilder) Body(contentType string, content []byte) *ResponseBuilder {
	b.headers["Content-Type"] = contentType
	b.body = content
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *ResponseBuilder) BodyHTML(html []byte) *ResponseBuilder {
	return b.Body("text/html; charset=utf-8", html)
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if len(b.body) > 0 {
		w.Header().Set("Content-Length", strconv.Itoa(len(b.body)))
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// Redirect creates a 303 See Other response, so a form POST is followed by
// a GET of the target view.
func Redirect(location string) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusSeeOther).
		Header("Location", location).
		NoStore()
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewResponse().
		Status(statusCode).
		BodyHTML([]byte(`<div class="notice error">` + escapedMsg + `</div>`))
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// TooManyRequestsError creates a 429 response.
func TooManyRequestsError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}
