package zammad

import (
	"errors"
	"fmt"
)

// ConfigurationError reports missing or incomplete settings. No network call
// was attempted.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func errNotConfigured() *ConfigurationError {
	return &ConfigurationError{Message: "zammad is not configured, set the Zammad URL and API token"}
}

// APIError reports a failed exchange with the Zammad API: a transport failure
// (StatusCode 0, Err set), a non-success HTTP status (StatusCode and Body
// set), or a success response whose body was unexpectedly empty.
type APIError struct {
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// FeatureNotEnabledError reports that the remote instance has a feature
// disabled by its operator. Distinguishable from a generic APIError so the
// UI can suggest contacting the administrator.
type FeatureNotEnabledError struct {
	Feature string
}

func (e *FeatureNotEnabledError) Error() string {
	return fmt.Sprintf("%s is not enabled in your Zammad instance", e.Feature)
}

// UserMessage maps an error from any Service operation to a message suitable
// for direct display.
func UserMessage(err error) string {
	var (
		cfgErr  *ConfigurationError
		featErr *FeatureNotEnabledError
		apiErr  *APIError
	)
	switch {
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("Configuration error: %s", cfgErr.Message)
	case errors.As(err, &featErr):
		return fmt.Sprintf("%s. Please contact your Zammad administrator to enable this feature.", featErr.Error())
	case errors.As(err, &apiErr):
		if apiErr.StatusCode > 0 {
			return fmt.Sprintf("API error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Sprintf("API error: %s", apiErr.Error())
	case err != nil:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
	return ""
}
