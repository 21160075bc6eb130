package store

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ErrNoCredentials indicates the static credentials file is unusable.
var ErrNoCredentials = errors.New("invalid AWS credentials file")

// isAPIErrorCode reports whether err carries one of the given AWS API
// error codes anywhere in its chain.
func isAPIErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
