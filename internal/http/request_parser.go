// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// the transaction form, the history filter inputs and record indexes.

package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dompet/internal/app"
	"dompet/internal/history"
)

var errInvalidIndex = errors.New("invalid transaction index")

// Form and query field names.
const (
	fieldAmount   = "amount"
	fieldType     = "type"
	fieldDate     = "date"
	fieldCategory = "category"

	fieldQuery = "q"
	fieldRange = "range"
	fieldIndex = "index"

	fieldUsername   = "username"
	fieldPassword   = "password"
	fieldCredential = "credential"
)

// ParseTransactionForm reads the transaction form fields as typed.
func ParseTransactionForm(form url.Values) app.Form {
	return app.Form{
		Amount:   sanitizeInput(form.Get(fieldAmount)),
		Type:     sanitizeInput(form.Get(fieldType)),
		Date:     sanitizeInput(form.Get(fieldDate)),
		Category: sanitizeInput(form.Get(fieldCategory)),
	}
}

// ParseFilter reads the history filter inputs. The second result is false
// when the query carries none of them, so the previous inputs stay in force.
func ParseFilter(query url.Values) (history.Filter, bool) {
	present := query.Has(fieldQuery) || query.Has(fieldRange) || query.Has(fieldCategory)
	if !present {
		return history.Filter{}, false
	}

	f := history.Filter{
		Query:    sanitizeInput(query.Get(fieldQuery)),
		Range:    sanitizeInput(query.Get(fieldRange)),
		Category: sanitizeInput(query.Get(fieldCategory)),
	}
	if f.Category == "" {
		f.Category = history.AllCategories
	}
	return f, true
}

// ParseIndex reads a non-negative store index.
func ParseIndex(form url.Values) (int, error) {
	raw := strings.TrimSpace(form.Get(fieldIndex))
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, errInvalidIndex
	}
	return i, nil
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *ResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireGET is a convenience function for view handlers. HEAD is allowed
// alongside GET.
func RequireGET(r *http.Request) *ResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *ResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *ResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Format permintaan tidak valid")
	}
	return nil
}
