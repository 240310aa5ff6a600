package transcribe

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/smithy-go"
)

// MissingConfigError is raised at init time when none of a required key's
// config-map entry or fallback env vars resolved to a non-empty value.
type MissingConfigError struct {
	EnvNames []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing required env var %s", strings.Join(e.EnvNames, "|"))
}

// TranscriptParseError is raised when a SUCCEEDED job's transcript cannot
// be recovered: the provider's descriptor has no transcript URI, or the
// artifact JSON has no transcript at the expected path.
type TranscriptParseError struct {
	JobName string
	Reason  string
}

func (e *TranscriptParseError) Error() string {
	return fmt.Sprintf("failed to parse transcript for %q: %s", e.JobName, e.Reason)
}

// UploadError wraps a failure from the object-store capability. Unlike
// provider-side errors, an upload failure aborts the batch.
type UploadError struct {
	SourceFile string
	Err        error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %q: %v", e.SourceFile, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// throttleFamily matches the provider's transient back-pressure errors:
// "ThrottlingException" or "LimitExceeded", case insensitive, anywhere in
// the stringified error.
var throttleFamily = regexp.MustCompile(`(?i)throttlingexception|limitexceeded`)

// isThrottled reports whether err represents transient provider
// back-pressure. It prefers the SDK's structured error code (smithy.APIError)
// over string matching; the regex is a fallback for errors that never made
// it through the SDK's typed error path.
func isThrottled(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if throttleFamily.MatchString(apiErr.ErrorCode()) {
			return true
		}
	}
	return throttleFamily.MatchString(err.Error())
}
