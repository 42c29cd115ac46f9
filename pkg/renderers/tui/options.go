package tui

import "go.uber.org/zap"

// OutputFormat controls how Encode serializes a record.
type OutputFormat string

const (
	OutputFormatJSON   OutputFormat = "json"
	OutputFormatPretty OutputFormat = "pretty"
)

// Theme captures message prefixes the session prints through the driver.
type Theme struct {
	ErrorPrefix string
	InfoPrefix  string
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutputFormat selects the Encode format.
func WithOutputFormat(format OutputFormat) Option {
	return func(s *Session) {
		if format != "" {
			s.format = format
		}
	}
}

// WithMaxAttempts bounds how often a single field is re-prompted while
// invalid, and how many correction rounds run after submit.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithLogger routes session debug logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
