package telegram

import (
	"errors"

	telegoapi "github.com/mymmrac/telego/telegoapi"

	"github.com/aatumaykin/inlinegames/internal/logger"
)

// ErrorDetails is what the Bot API said about a failed call.
type ErrorDetails struct {
	ErrorCode     int    // 400, 403, 429 ...
	Description   string // human readable reason from Telegram
	RetryAfterSec int    // set on rate limiting
}

// DescribeError extracts the Bot API error from err. Transport failures
// and other non-API errors keep their message as Description.
func DescribeError(err error) ErrorDetails {
	var telErr *telegoapi.Error
	if !errors.As(err, &telErr) {
		return ErrorDetails{Description: err.Error()}
	}

	details := ErrorDetails{
		ErrorCode:   telErr.ErrorCode,
		Description: telErr.Description,
	}
	if telErr.Parameters != nil {
		details.RetryAfterSec = telErr.Parameters.RetryAfter
	}
	if details.Description == "" {
		details.Description = err.Error()
	}
	return details
}

// IsRetryable reports rate limiting and server side failures.
func (d ErrorDetails) IsRetryable() bool {
	return d.ErrorCode == 429 || (d.ErrorCode >= 500 && d.ErrorCode < 600)
}

// LogFields returns fields for structured logging.
func (d ErrorDetails) LogFields() []logger.Field {
	return []logger.Field{
		{Key: "error_code", Value: d.ErrorCode},
		{Key: "error_description", Value: d.Description},
		{Key: "retry_after", Value: d.RetryAfterSec},
		{Key: "retryable", Value: d.IsRetryable()},
	}
}
