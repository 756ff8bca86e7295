// Package utils provides shared utilities for text, math, and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// NormalizeWhitespace collapses every run of whitespace in s (spaces, tabs,
// newlines) into a single space and trims the ends. Case is preserved, so two
// texts that differ only in whitespace normalize to the same string.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
