package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryBuild   Category = "build"
	CategoryDev     Category = "dev"
	CategoryDeploy  Category = "deploy"
	CategoryRuntime Category = "runtime"
	CategoryCLI     Category = "cli"
)

// Location represents a source code location.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// VeldtError is a structured error with location, suggestions, and
// documentation.
type VeldtError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (config, build, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source code location where the error occurred.
	Location *Location

	// Context contains surrounding source code lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *VeldtError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *VeldtError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds source location to the error.
func (e *VeldtError) WithLocation(file string, line, column int) *VeldtError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithLocationFromError extracts location from a Go compiler error
// ("file.go:line:column: message").
func (e *VeldtError) WithLocationFromError(err error) *VeldtError {
	if err == nil {
		return e
	}
	parts := strings.SplitN(err.Error(), ":", 4)
	if len(parts) >= 3 {
		var line, col int
		fmt.Sscanf(parts[1], "%d", &line)
		fmt.Sscanf(parts[2], "%d", &col)
		if line > 0 {
			e.Location = &Location{File: parts[0], Line: line, Column: col}
			e.Context = readContextLines(parts[0], line, 5)
		}
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *VeldtError) WithSuggestion(s string) *VeldtError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *VeldtError) WithDetail(d string) *VeldtError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *VeldtError) Wrap(err error) *VeldtError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a VeldtError from a registered error code.
func New(code string) *VeldtError {
	template, ok := registry[code]
	if !ok {
		return &VeldtError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &VeldtError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new VeldtError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *VeldtError {
	return &VeldtError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a VeldtError.
func FromError(err error, code string) *VeldtError {
	if err == nil {
		return nil
	}
	if ve, ok := err.(*VeldtError); ok {
		return ve
	}
	return New(code).Wrap(err)
}
