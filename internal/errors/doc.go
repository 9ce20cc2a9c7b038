// Package errors provides structured errors for the veldt toolchain.
// Errors carry a code, a category, and optional location, suggestion,
// and documentation fields, and format nicely for terminal output.
package errors
