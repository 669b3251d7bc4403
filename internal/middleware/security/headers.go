package security

import (
	"fmt"
	"net/http"
	"strings"
)

// HeadersConfig holds security headers configuration
type HeadersConfig struct {
	// Content Security Policy sources
	ScriptSources  []string
	ConnectSources []string
	FrameSources   []string

	// HSTS settings
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool

	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
	CrossOriginOpener   string
}

const (
	chartJSOrigin   = "https://cdn.jsdelivr.net"
	googleGSIOrigin = "https://accounts.google.com"
)

// DefaultHeadersConfig returns defaults that allow the chart and date picker
// libraries and the Google sign-in client and nothing else from outside.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		ScriptSources:  []string{"'self'", chartJSOrigin, googleGSIOrigin + "/gsi/client"},
		ConnectSources: []string{"'self'", googleGSIOrigin + "/gsi/"},
		FrameSources:   []string{googleGSIOrigin + "/gsi/"},

		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubdomains: true,

		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		PermissionsPolicy:   "geolocation=(), microphone=(), camera=(), payment=()",
		// the Google sign-in popup needs to talk back to the opener
		CrossOriginOpener: "same-origin-allow-popups",
	}
}

// CSP builds the Content-Security-Policy value.
func (c HeadersConfig) CSP() string {
	directives := []string{
		"default-src 'self'",
		"script-src " + strings.Join(c.ScriptSources, " "),
		"style-src 'self' 'unsafe-inline' " + chartJSOrigin + " " + googleGSIOrigin + "/gsi/style",
		"img-src 'self' data:",
		"connect-src " + strings.Join(c.ConnectSources, " "),
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}
	if len(c.FrameSources) > 0 {
		directives = append(directives, "frame-src "+strings.Join(c.FrameSources, " "))
	}
	return strings.Join(directives, "; ")
}

// HeadersMiddleware applies security headers to responses
type HeadersMiddleware struct {
	config HeadersConfig
	csp    string
}

// NewHeadersMiddleware creates a new security headers middleware
func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	return &HeadersMiddleware{
		config: config,
		csp:    config.CSP(),
	}
}

// Middleware returns the HTTP middleware function
func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.applyHeaders(w, r)
		next.ServeHTTP(w, r)
	})
}

func (h *HeadersMiddleware) applyHeaders(w http.ResponseWriter, r *http.Request) {
	headers := w.Header()

	headers.Set("X-Content-Type-Options", h.config.XContentTypeOptions)
	headers.Set("X-Frame-Options", h.config.XFrameOptions)
	headers.Set("Content-Security-Policy", h.csp)
	headers.Set("Referrer-Policy", h.config.ReferrerPolicy)
	headers.Set("Permissions-Policy", h.config.PermissionsPolicy)
	headers.Set("Cross-Origin-Opener-Policy", h.config.CrossOriginOpener)

	// HSTS header (only for HTTPS)
	if r.TLS != nil && h.config.HSTSMaxAge > 0 {
		hstsValue := fmt.Sprintf("max-age=%d", h.config.HSTSMaxAge)
		if h.config.HSTSIncludeSubdomains {
			hstsValue += "; includeSubDomains"
		}
		headers.Set("Strict-Transport-Security", hstsValue)
	}
}

// StaticAssetMiddleware adds caching headers for static assets
func StaticAssetMiddleware(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NoStore marks responses as uncacheable. Every view carries personal
// financial data.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
