package errors

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks v against its `validate` struct tags and reports the
// first violation as an ErrCodeInvalidInput error.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Wrap(ErrCodeInvalidInput, err, "invalid input")
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return New(ErrCodeInvalidInput, "%s is required", field)
	case "min", "gte":
		return New(ErrCodeInvalidInput, "%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return New(ErrCodeInvalidInput, "%s must not exceed %s", field, fe.Param())
	case "gt":
		return New(ErrCodeInvalidInput, "%s must be greater than %s", field, fe.Param())
	case "oneof":
		return New(ErrCodeInvalidInput, "%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return New(ErrCodeInvalidInput, "%s is invalid (%s)", field, fe.Tag())
	}
}

// ValidateName checks a diagram or page name: non-empty, at most 256
// characters, no control characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a relative file path for safety:
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// Describe formats an error for display, prefixing coded errors with a
// short category.
func Describe(err error) string {
	switch GetCode(err) {
	case ErrCodeEmptyFlow:
		return "nothing to diagram: " + UserMessage(err)
	case ErrCodeTierLimit, ErrCodeFeatureGated:
		return "upgrade required: " + UserMessage(err)
	case ErrCodeExportFailed:
		var e *Error
		if errors.As(err, &e) && e.Cause != nil {
			return fmt.Sprintf("export failed: %s: %v", e.Message, e.Cause)
		}
		return "export failed: " + UserMessage(err)
	case ErrCodeInternal:
		return "internal error: " + UserMessage(err)
	}
	return UserMessage(err)
}
