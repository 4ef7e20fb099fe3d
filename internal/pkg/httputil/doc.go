// Package httputil provides the JSON response helpers shared by all HTTP
// handlers, plus the mapping from the domain error taxonomy to status codes.
package httputil
