package validation

import (
	"fmt"
	"regexp"
	"strings"

	"lattice/internal/models"
)

const (
	maxTitleLen    = 128
	maxLocationLen = 128
	maxBioLen      = 1000
	maxPhoneLen    = 32
	maxURLLen      = 256
	maxAvatarLen   = 256
)

var phoneRe = regexp.MustCompile(`^\+?[0-9\- ]{7,32}$`)

// ValidateTitle checks the profile headline field.
func ValidateTitle(v string) error {
	return validateMaxLen("title", v, maxTitleLen)
}

// ValidateLocation checks the profile location field.
func ValidateLocation(v string) error {
	return validateMaxLen("location", v, maxLocationLen)
}

// ValidateBio checks the profile bio field.
func ValidateBio(v string) error {
	return validateMaxLen("bio", v, maxBioLen)
}

// ValidatePhone checks the phone number format. An empty value is accepted;
// a non-empty value must match ^\+?[0-9\- ]{7,32}$.
func ValidatePhone(v string) error {
	if v == "" {
		return nil
	}
	if len(v) > maxPhoneLen {
		return models.NewFieldValidationError("phone", fmt.Sprintf("must not exceed %d characters", maxPhoneLen))
	}
	if !phoneRe.MatchString(v) {
		return models.NewFieldValidationError("phone", "invalid phone number format")
	}
	return nil
}

// ValidateProfileURL checks the linkedin/github/twitter fields: bounded length
// and an http(s) scheme prefix when non-empty.
func ValidateProfileURL(field, v string) error {
	if err := validateMaxLen(field, v, maxURLLen); err != nil {
		return err
	}
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return models.NewFieldValidationError(field, "must start with http:// or https://")
	}
	return nil
}

// ValidateAvatar checks the avatar field. Both filenames and URLs are
// accepted; only the length is bounded.
func ValidateAvatar(v string) error {
	return validateMaxLen("avatar", v, maxAvatarLen)
}

func validateMaxLen(field, v string, max int) error {
	if len(v) > max {
		return models.NewFieldValidationError(field, fmt.Sprintf("must not exceed %d characters", max))
	}
	return nil
}
