// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the structured access logger. Every
// submission to this service carries a resident's name, email address, and
// postcode, so the logger scrubs PII from request metadata before anything
// is emitted:
//
//   - never logs request or response bodies
//   - redacts email addresses, UK postcodes, phone numbers, and UUIDs from
//     query strings and header values
//   - fully masks sensitive headers (Authorization, Cookie, Set-Cookie,
//     X-Admin-Token, plus any configured extras)
//
// It also attaches a request-scoped zerolog.Logger to the Gin context (key
// "logger") so handlers can emit enriched logs tied to the request.
//
// Scrubbing reduces but does not eliminate leak risk: clients should still
// avoid putting PII in query strings in the first place.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// RedactOptions configures additional scrub behavior for RedactingLogger.
//
// MaskHeaders lists extra HTTP header names whose values are fully replaced
// with "[REDACTED]". Matching is case-insensitive and merged with the
// built-in sensitive headers.
type RedactOptions struct {
	MaskHeaders []string
}

// Redaction patterns, compiled once. Order matters when applied: UUIDs
// before phone numbers (the phone pattern would otherwise eat UUID digit
// runs), postcodes before phones for the same reason.
var (
	redactUUIDRE     = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	redactEmailRE    = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	redactPostcodeRE = regexp.MustCompile(`(?i)\b[a-z]{1,2}[0-9][0-9a-z]?\s*[0-9][a-z]{2}\b`)
	redactPhoneRE    = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// scrub replaces PII occurrences in s with typed placeholders.
func scrub(s string) string {
	if s == "" {
		return s
	}
	out := redactUUIDRE.ReplaceAllString(s, "[REDACTED:id]")
	out = redactEmailRE.ReplaceAllString(out, "[REDACTED:email]")
	out = redactPostcodeRE.ReplaceAllString(out, "[REDACTED:postcode]")
	out = redactPhoneRE.ReplaceAllString(out, "[REDACTED:phone]")
	return out
}

// RedactingLogger returns a Gin middleware that logs each request with PII
// scrubbed, choosing severity by status (info, warn for 4xx, error for 5xx).
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
		"x-admin-token": {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := scrub(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = scrub(strings.Join(vv, ", "))
		}

		// Request-scoped logger for handlers and services. Carries the active
		// trace ID (when tracing is on) so log lines correlate with spans.
		rid, _ := c.Get(requestIDKey)
		lctx := log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", path)
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			lctx = lctx.Str("trace_id", sc.TraceID().String())
		}
		reqLogger := lctx.Logger()
		c.Set("logger", &reqLogger)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		size := c.Writer.Size()

		reqID := c.Writer.Header().Get(requestIDHeader)
		if reqID == "" {
			reqID = c.GetHeader(requestIDHeader)
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", size).
			Dur("latency", latency).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
