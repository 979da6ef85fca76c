package providers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"tutorchat/internal/util"
)

type ErrorType string

const (
	ErrorQuota     ErrorType = "quota"
	ErrorRate      ErrorType = "rate"
	ErrorTransient ErrorType = "transient"
	ErrorPermanent ErrorType = "permanent"
	ErrorContext   ErrorType = "context"
)

func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, util.ErrQuotaExhausted):
		return ErrorQuota
	case errors.Is(err, util.ErrRateLimited):
		return ErrorRate
	case errors.Is(err, util.ErrContextTooLong):
		return ErrorContext
	case errors.Is(err, util.ErrTransient), errors.Is(err, context.DeadlineExceeded):
		return ErrorTransient
	case errors.Is(err, util.ErrPermanent):
		return ErrorPermanent
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "insufficient_quota"):
		return ErrorQuota
	case strings.Contains(e, "rate"), strings.Contains(e, "429"):
		return ErrorRate
	case strings.Contains(e, "context_length"), strings.Contains(e, "context length"), strings.Contains(e, "too long"):
		return ErrorContext
	case strings.Contains(e, "timeout"), strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"):
		return ErrorTransient
	default:
		return ErrorPermanent
	}
}

// statusError wraps an HTTP failure with the sentinel matching its status code.
func statusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	var kind error
	switch {
	case status == 429 && strings.Contains(strings.ToLower(msg), "quota"):
		kind = util.ErrQuotaExhausted
	case status == 429:
		kind = util.ErrRateLimited
	case status == 413:
		kind = util.ErrContextTooLong
	case status >= 500:
		kind = util.ErrTransient
	case strings.Contains(strings.ToLower(msg), "context_length"):
		kind = util.ErrContextTooLong
	default:
		kind = util.ErrPermanent
	}
	return &httpError{provider: provider, status: status, body: msg, kind: kind}
}

type httpError struct {
	provider string
	status   int
	body     string
	kind     error
}

func (e *httpError) Error() string {
	return e.provider + " chat error " + strconv.Itoa(e.status) + ": " + e.body
}

func (e *httpError) Unwrap() error { return e.kind }
