package siteconfig

import (
	"errors"
	"fmt"
)

var (
	ErrExtensionTag            = errors.New("extension tag not recognized")
	ErrDuplicateExtensionTag   = errors.New("duplicate extension tag")
	ErrLinkTrail               = errors.New("link trail not recognized")
	ErrDuplicateMagicWord      = errors.New("duplicate magic word")
	ErrMagicWordAlias          = errors.New("magic word alias not recognized")
	ErrRedirectAlias           = errors.New("redirect magic word alias not recognized")
	ErrDuplicateRedirectAlias  = errors.New("duplicate redirect magic word alias")
	ErrRedirectMissing         = errors.New("redirect magic word missing")
	ErrDuplicateNamespaceAlias = errors.New("duplicate namespace alias")
	ErrNamespaceMissing        = errors.New("namespace missing")
	ErrNamespaceID             = errors.New("namespace ID does not match")
	ErrCanonicalMissing        = errors.New("namespace canonical name missing")
	ErrDuplicateProtocol       = errors.New("duplicate protocol")
)

// ValidationError reports the site value that broke one of the Err* rules.
type ValidationError struct {
	Err   error
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %q", e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) (*ValidationError, bool) {
	var e *ValidationError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func invalid(err error, value string) error {
	return &ValidationError{Err: err, Value: value}
}
