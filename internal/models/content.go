package models

import (
	"errors"
	"strings"
)

// MaxContentLength bounds both chat messages and confession content.
const MaxContentLength = 500

var (
	ErrEmptyContent   = errors.New("content cannot be empty")
	ErrContentTooLong = errors.New("content must be at most 500 characters")
)

// ValidateContent rejects empty (after trimming) or over-length content.
// Over-length input is rejected outright, never truncated.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if len([]rune(content)) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}
