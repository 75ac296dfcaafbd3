// Package validation checks user-supplied payloads before they are sent,
// so forms can report problems without a round trip.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jamesprial/go-noroff-social/pkg/types"
)

const (
	MinPasswordLength = 8
	MinNameLength     = 2
	MaxNameLength     = 20
	MaxTitleLength    = 280
	MaxBodyLength     = 280
	MaxCommentLength  = 280
	MaxBioLength      = 160
	MaxTags           = 8
	MaxTagLength      = 24
)

var (
	// nameRegex matches profile names: letters, digits and underscores.
	nameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// IsValidEmail checks if s is a single well-formed email address.
func IsValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}

// IsValidProfileName checks if s is a valid profile name.
func IsValidProfileName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinNameLength && n <= MaxNameLength && nameRegex.MatchString(s)
}

// IsValidMediaURL checks that u is an absolute http(s) URL.
func IsValidMediaURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// ValidateRegistration checks the registration payload. The first problem
// found is returned with a message fit for showing to a user.
func ValidateRegistration(req *types.RegisterRequest) error {
	if req == nil {
		return fmt.Errorf("registration request is nil")
	}
	if !IsValidEmail(strings.TrimSpace(req.Email)) {
		return fmt.Errorf("Please enter a valid email address.")
	}
	if len(req.Password) < MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters.", MinPasswordLength)
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) < MinNameLength {
		return fmt.Errorf("Please enter your name.")
	}
	if !IsValidProfileName(req.Name) {
		return fmt.Errorf("Name may only contain letters, numbers and underscores (max %d).", MaxNameLength)
	}
	if utf8.RuneCountInString(req.Bio) > MaxBioLength {
		return fmt.Errorf("Bio cannot exceed %d characters.", MaxBioLength)
	}
	if err := validateMedia("avatar", req.Avatar); err != nil {
		return err
	}
	return validateMedia("banner", req.Banner)
}

// ValidatePostInput checks a post body for create or update.
func ValidatePostInput(in *types.PostInput) error {
	if in == nil {
		return fmt.Errorf("post input is nil")
	}

	var errs []error
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, fmt.Errorf("title is required"))
	} else if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		errs = append(errs, fmt.Errorf("title cannot exceed %d characters", MaxTitleLength))
	}
	if utf8.RuneCountInString(in.Body) > MaxBodyLength {
		errs = append(errs, fmt.Errorf("body cannot exceed %d characters", MaxBodyLength))
	}
	if len(in.Tags) > MaxTags {
		errs = append(errs, fmt.Errorf("cannot have more than %d tags", MaxTags))
	}
	for i, tag := range in.Tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, fmt.Errorf("tag %d is empty", i))
		} else if utf8.RuneCountInString(tag) > MaxTagLength {
			errs = append(errs, fmt.Errorf("tag %q exceeds %d characters", tag, MaxTagLength))
		}
	}
	if err := validateMedia("media", in.Media); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("post validation failed: %w", joinValidationErrors(errs))
	}
	return nil
}

// ValidateComment checks a comment body.
func ValidateComment(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	if utf8.RuneCountInString(body) > MaxCommentLength {
		return fmt.Errorf("comment cannot exceed %d characters", MaxCommentLength)
	}
	return nil
}

// ValidateProfileInput checks a profile update.
func ValidateProfileInput(in *types.ProfileInput) error {
	if in == nil {
		return fmt.Errorf("profile input is nil")
	}
	if in.Bio == nil && in.Avatar == nil && in.Banner == nil {
		return fmt.Errorf("nothing to update")
	}
	if in.Bio != nil && utf8.RuneCountInString(*in.Bio) > MaxBioLength {
		return fmt.Errorf("bio cannot exceed %d characters", MaxBioLength)
	}
	if err := validateMedia("avatar", in.Avatar); err != nil {
		return err
	}
	return validateMedia("banner", in.Banner)
}

func validateMedia(field string, m *types.Media) error {
	if m == nil {
		return nil
	}
	if !IsValidMediaURL(m.URL) {
		return fmt.Errorf("%s URL must be an absolute http(s) URL", field)
	}
	return nil
}

// joinValidationErrors combines multiple validation errors into one.
func joinValidationErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
