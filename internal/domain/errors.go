package domain

import "fmt"

// ValidationError is returned when a payload violates a field or cross-field rule
type ValidationError struct {
	Field   string // Offending field, empty for cross-field rules
	Message string // Human-readable rule description
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ConflictError is returned when a unique user attribute is already taken
type ConflictError struct {
	Field string // username, email or phone
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "user already exists"
	}
	return fmt.Sprintf("user with this %s already exists", e.Field)
}

// AuthenticationError is returned when no valid identity was presented
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "authentication credentials were not provided"
	}
	return e.Message
}

// AuthorizationError is returned when the caller is authenticated but not permitted
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return "you do not have permission to perform this action"
	}
	return e.Message
}

// NotFoundError is returned when a resource does not exist
type NotFoundError struct {
	Resource string // campaign, donation or user
	ID       uint
	Key      string // Lookup value when the resource was not looked up by ID
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
