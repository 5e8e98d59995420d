// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter           = errors.New("invalid parameter")
	ErrNilParameter               = errors.New("nil parameter")
	ErrInvalidCACert              = errors.New("invalid CA certificate")
	ErrIdGeneratorFailed          = errors.New("id generation failed")
	ErrMissingClientID            = errors.New("missing client id")
	ErrMissingRedirectURL         = errors.New("missing redirect URL")
	ErrUnsupportedResponseType    = errors.New("unsupported response type")
	ErrUnsupportedChallengeMethod = errors.New("unsupported PKCE challenge method")
	ErrResponseStateInvalid       = errors.New("authorization response state invalid")
	ErrInvalidNonce               = errors.New("invalid nonce")
	ErrInvalidState               = errors.New("invalid controller state")
	ErrPromptInProgress           = errors.New("prompt already in progress")
	ErrLoadInProgress             = errors.New("load already in progress")
	ErrUnsupportedRedirect        = errors.New("unsupported redirect URL")
	ErrMalformedToken             = errors.New("malformed token")
)

// MissingClientIDError is returned when neither the client id slot selected
// by the platform nor the generic client id is configured.  It's a blocking
// configuration error and is never retried.
type MissingClientIDError struct {
	// Slot is the name of the client id slot the platform selected.
	Slot Slot
}

// Error implements the error interface.
func (e *MissingClientIDError) Error() string {
	return fmt.Sprintf("client id slot %q (or a generic client id) must be configured for this platform", e.Slot)
}

// Is allows errors.Is(err, ErrMissingClientID) to match.
func (e *MissingClientIDError) Is(target error) bool {
	return target == ErrMissingClientID
}

// AuthError represents an OAuth2 error response returned via the user agent.
// See: https://openid.net/specs/openid-connect-core-1_0.html#AuthError
type AuthError struct {
	Code        string
	Description string
	URI         string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("authorization error: %s", e.Code)
	}
	return fmt.Sprintf("authorization error: %s: %s", e.Code, e.Description)
}
