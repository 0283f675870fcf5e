package clients

import (
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"simplesurvey/core"
)

// APIErrorKindUnknown is used when a failure carries no API error code
const APIErrorKindUnknown = "unknown"

// APIErrorKindRateLimited is used for throttled calls
const APIErrorKindRateLimited = "ratelimited"

// APIError is a failed external API call reduced to its error code and message
type APIError struct {
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" || e.Message == e.Kind {
		return e.Kind
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is makes every *_not_found error code match core.ErrNotFound
func (e *APIError) Is(target error) bool {
	return target == core.ErrNotFound && strings.HasSuffix(e.Kind, "_not_found")
}

// NewSlackAPIError maps a slack-go error into an APIError
func NewSlackAPIError(err error) error {
	if err == nil {
		return nil
	}

	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return &APIError{Kind: slackErr.Err, Message: slackErr.Error()}
	}

	var rateLimitErr *slack.RateLimitedError
	if errors.As(err, &rateLimitErr) {
		return &APIError{Kind: APIErrorKindRateLimited, Message: rateLimitErr.Error()}
	}

	return &APIError{Kind: APIErrorKindUnknown, Message: err.Error()}
}
