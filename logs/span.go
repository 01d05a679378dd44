package logs

// Span tags all log records and errors produced under one context
// subtree, exploration sessions in particular.
type Span string

type spanContextKey struct{}

var SpanKey spanContextKey
