// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// ChallengeMethod represents PKCE code challenge methods as defined by RFC
// 7636.
type ChallengeMethod string

const (
	// S256 is the SHA-256 code challenge method.  It's the only method
	// supported.
	S256 ChallengeMethod = "S256"
)

// CodeVerifier is a PKCE verifier/challenge pair.  The verifier stays private
// to the request instance; only the challenge is sent to the provider.
type CodeVerifier struct {
	verifier  string
	challenge string
	method    ChallengeMethod
}

// NewCodeVerifier creates a new S256 CodeVerifier.
func NewCodeVerifier() (CodeVerifier, error) {
	const op = "oidc.NewCodeVerifier"
	v := oauth2.GenerateVerifier()
	challenge, err := CreateCodeChallenge(S256, v)
	if err != nil {
		return CodeVerifier{}, fmt.Errorf("%s: %w", op, err)
	}
	return CodeVerifier{
		verifier:  v,
		challenge: challenge,
		method:    S256,
	}, nil
}

// Verifier returns the code verifier.
func (v CodeVerifier) Verifier() string { return v.verifier }

// Challenge returns the code challenge.
func (v CodeVerifier) Challenge() string { return v.challenge }

// Method returns the code challenge method.
func (v CodeVerifier) Method() ChallengeMethod { return v.method }

// IsZero reports whether the verifier is unset.
func (v CodeVerifier) IsZero() bool { return v.verifier == "" }

// String will redact the verifier.
func (v CodeVerifier) String() string { return "[REDACTED: code verifier]" }

// CreateCodeChallenge creates a code challenge from the verifier.
func CreateCodeChallenge(method ChallengeMethod, verifier string) (string, error) {
	const op = "oidc.CreateCodeChallenge"
	switch method {
	case S256:
		return oauth2.S256ChallengeFromVerifier(verifier), nil
	default:
		return "", fmt.Errorf("%s: %s is invalid: %w", op, method, ErrUnsupportedChallengeMethod)
	}
}

// PKCEGenerator generates PKCE verifier/challenge pairs.  Implementations
// must be safe for concurrent use.
type PKCEGenerator interface {
	GeneratePKCE(ctx context.Context) (CodeVerifier, error)
}

// S256Generator is the default PKCEGenerator.
type S256Generator struct{}

// ensure that S256Generator implements the PKCEGenerator interface
var _ PKCEGenerator = S256Generator{}

// GeneratePKCE implements the PKCEGenerator interface.
func (S256Generator) GeneratePKCE(ctx context.Context) (CodeVerifier, error) {
	const op = "S256Generator.GeneratePKCE"
	if err := ctx.Err(); err != nil {
		return CodeVerifier{}, fmt.Errorf("%s: %w", op, err)
	}
	return NewCodeVerifier()
}
