package internal

import (
	"fmt"
	"strings"
	"unicode"

	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

const (
	// Profile name constraints
	maxProfileNameLength = 20

	// Pagination constraints
	maxPaginationLimit = 100

	// Reaction symbol constraints
	maxSymbolLength = 32

	// User agent constraints
	maxUserAgentLength = 256
)

// Validator checks request parameters before they are put on the wire.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePostID checks that id can address a post or comment.
func (v *Validator) ValidatePostID(field string, id int) error {
	if id <= 0 {
		return &pkgerrs.ConfigError{Field: field, Message: fmt.Sprintf("%s must be a positive number", field)}
	}
	return nil
}

// ValidateProfileName checks a profile name: letters, digits and underscores only.
func (v *Validator) ValidateProfileName(name string) error {
	if name == "" {
		return &pkgerrs.ConfigError{Field: "name", Message: "profile name cannot be empty"}
	}
	if len(name) > maxProfileNameLength {
		return &pkgerrs.ConfigError{Field: "name", Message: fmt.Sprintf("profile name cannot exceed %d characters", maxProfileNameLength)}
	}
	for i, ch := range name {
		if !(ch >= 'a' && ch <= 'z') && !(ch >= 'A' && ch <= 'Z') && !(ch >= '0' && ch <= '9') && ch != '_' {
			return &pkgerrs.ConfigError{Field: "name", Message: fmt.Sprintf("profile name contains invalid character '%c' at position %d", ch, i)}
		}
	}
	return nil
}

// ValidatePagination checks if pagination parameters are valid.
func (v *Validator) ValidatePagination(pagination *types.Pagination) error {
	if pagination == nil {
		return nil
	}
	if pagination.Page < 0 {
		return &pkgerrs.ConfigError{Field: "pagination.Page", Message: "page cannot be negative"}
	}
	if pagination.Limit < 0 {
		return &pkgerrs.ConfigError{Field: "pagination.Limit", Message: "limit cannot be negative"}
	}
	if pagination.Limit > maxPaginationLimit {
		return &pkgerrs.ConfigError{Field: "pagination.Limit", Message: fmt.Sprintf("limit cannot exceed %d", maxPaginationLimit)}
	}
	return nil
}

// ValidateSymbol checks a reaction symbol. The API only accepts emoji, so
// plain letters, digits and whitespace are rejected here.
func (v *Validator) ValidateSymbol(symbol string) error {
	if symbol == "" {
		return &pkgerrs.ConfigError{Field: "symbol", Message: "reaction symbol cannot be empty"}
	}
	if len(symbol) > maxSymbolLength {
		return &pkgerrs.ConfigError{Field: "symbol", Message: fmt.Sprintf("reaction symbol too long (max %d bytes)", maxSymbolLength)}
	}
	for _, ch := range symbol {
		if unicode.IsSpace(ch) || (ch < unicode.MaxASCII && (unicode.IsLetter(ch) || unicode.IsDigit(ch))) {
			return &pkgerrs.ConfigError{Field: "symbol", Message: "reaction symbol must be an emoji"}
		}
	}
	return nil
}

// ValidateUserAgent validates the User-Agent string to prevent header injection attacks.
func (v *Validator) ValidateUserAgent(ua string) error {
	if len(ua) == 0 {
		return fmt.Errorf("user agent cannot be empty")
	}

	if strings.ContainsAny(ua, "\r\n") {
		return fmt.Errorf("user agent cannot contain newline characters")
	}

	if len(ua) > maxUserAgentLength {
		return fmt.Errorf("user agent too long (max %d characters)", maxUserAgentLength)
	}

	return nil
}

// ValidateHeaderValue rejects values that would allow header injection.
func (v *Validator) ValidateHeaderValue(field, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return &pkgerrs.ConfigError{Field: field, Message: "value cannot contain newline characters"}
	}
	return nil
}
