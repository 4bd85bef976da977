// Package script runs small Tengo rules that derive presentation values from
// content data at load time: computed company age, milestone durations,
// formatted attribution lines. Rules ship embedded with the binary and can be
// overridden by external files that hot-reload during development.
package script

import (
	"time"
)

// RuleSource indicates where a rule was loaded from.
type RuleSource string

const (
	SourceEmbedded RuleSource = "embedded"
	SourceExternal RuleSource = "external"
)

// ErrorType categorizes rule failures.
type ErrorType string

const (
	ErrorTypeCompilation ErrorType = "compilation"
	ErrorTypeExecution   ErrorType = "execution"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeNotFound    ErrorType = "not_found"
)

// Rule is a named Tengo snippet plus metadata.
type Rule struct {
	Name         string
	Content      string
	Source       RuleSource
	LastModified time.Time
}

// Limits constrains rule execution. Rules are trusted operator content, not
// visitor input, so the limits are a backstop against mistakes rather than a
// sandbox against attackers.
type Limits struct {
	MaxExecutionTime time.Duration
	AllowedModules   []string
}

// DefaultLimits returns the limits applied when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxExecutionTime: 2 * time.Second,
		AllowedModules:   []string{"fmt", "text", "times", "math"},
	}
}

// RuleError wraps a rule failure with its category and rule name.
type RuleError struct {
	Type    ErrorType
	Rule    string
	Message string
	Cause   error
}

func (e *RuleError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RuleError) Unwrap() error {
	return e.Cause
}

// NewRuleError creates a RuleError.
func NewRuleError(errorType ErrorType, rule, message string, cause error) *RuleError {
	return &RuleError{
		Type:    errorType,
		Rule:    rule,
		Message: message,
		Cause:   cause,
	}
}
