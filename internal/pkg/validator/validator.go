package validator

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 64
	minPasswordLength = 8
	maxRequirementLen = 2000
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCreateSession validates a session-creation request.
func (v *Validator) ValidateCreateSession(req *entity.CreateSessionRequest) error {
	if strings.TrimSpace(req.URL) == "" {
		return fmt.Errorf("%w: url", entity.ErrMissingField)
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: url must be an absolute http(s) URL", entity.ErrInvalidFormat)
	}

	// Requirement is optional; generation falls back to a generic focus.
	if utf8.RuneCountInString(req.Requirement) > maxRequirementLen {
		return fmt.Errorf("%w: requirement exceeds %d characters", entity.ErrInvalidParameter, maxRequirementLen)
	}

	return nil
}

// ValidateUpdateCard validates a card state change.
func (v *Validator) ValidateUpdateCard(req *entity.UpdateCardRequest) error {
	if req.State == "" {
		return fmt.Errorf("%w: state", entity.ErrMissingField)
	}
	return req.State.Validate()
}

// ValidateRegister validates a registration request.
func (v *Validator) ValidateRegister(req *entity.RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return fmt.Errorf("%w: username", entity.ErrMissingField)
	}
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters",
			entity.ErrInvalidParameter, minUsernameLength, maxUsernameLength)
	}

	if req.Password == "" {
		return fmt.Errorf("%w: password", entity.ErrMissingField)
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters",
			entity.ErrInvalidParameter, minPasswordLength)
	}

	return nil
}

// ValidateLogin validates a login request.
func (v *Validator) ValidateLogin(req *entity.LoginRequest) error {
	if req.Username == "" {
		return fmt.Errorf("%w: username", entity.ErrMissingField)
	}
	if req.Password == "" {
		return fmt.Errorf("%w: password", entity.ErrMissingField)
	}
	return nil
}

// ValidateExportFormat checks the requested session export format.
func (v *Validator) ValidateExportFormat(format string) (entity.ResultFormat, error) {
	switch entity.ResultFormat(format) {
	case entity.FormatMarkdown, entity.FormatPDF, entity.FormatDOCX:
		return entity.ResultFormat(format), nil
	case "":
		return entity.FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidParameter, format)
	}
}
