package api

import "github.com/sudo-init-do/talktrade/internal/marketplace"

// Validator adapts the marketplace validator to echo.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

func (Validator) Validate(i interface{}) error {
	return marketplace.Validate(i)
}
