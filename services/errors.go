package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrActorNotFound      = errors.New("user not found")
	ErrIssueNotFound      = errors.New("issue not found")
	ErrReporterNotFound   = errors.New("reporting user not found")
	ErrInvalidTransition  = errors.New("issue cannot move to that status")
)

// ValidationError lists the input fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, msg))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
