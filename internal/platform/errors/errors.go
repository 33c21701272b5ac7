package apperrors

import "errors"

var (
	// ErrMalformedSession means a session string does not match the
	// "<range>, <date>" shape and cannot be resolved.
	ErrMalformedSession = errors.New("malformed session string")

	// ErrUnparseableDate means the date half of a session string does not
	// match the weekday/day/month grammar.
	ErrUnparseableDate = errors.New("unparseable session date")

	ErrNoWebhook = errors.New("webhook url is not configured")
)
