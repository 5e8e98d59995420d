// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// IDToken is an oidc id_token returned directly via the user agent.
type IDToken string

// RedactedIDToken is the redacted string or json for an oidc id_token.
const RedactedIDToken = "[REDACTED: id_token]"

// String will redact the token.
func (t IDToken) String() string {
	return RedactedIDToken
}

// MarshalJSON will redact the token.
func (t IDToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedIDToken)
}

// supportedAlgorithms are the id_token signing algorithms the parser accepts.
var supportedAlgorithms = []jose.SignatureAlgorithm{
	jose.RS256, jose.RS384, jose.RS512,
	jose.ES256, jose.ES384, jose.ES512,
	jose.PS256, jose.PS384, jose.PS512,
	jose.EdDSA,
}

// Claims unmarshals the IDToken's claims WITHOUT verifying its signature.
// Signature verification requires the provider's keys and belongs to the
// token validation step that follows a prompt.
func (t IDToken) Claims(claims interface{}) error {
	const op = "IDToken.Claims"
	if len(t) == 0 {
		return fmt.Errorf("%s: id_token is empty: %w", op, ErrInvalidParameter)
	}
	if claims == nil {
		return fmt.Errorf("%s: claims interface is nil: %w", op, ErrNilParameter)
	}
	tok, err := jwt.ParseSigned(string(t), supportedAlgorithms)
	if err != nil {
		return fmt.Errorf("%s: unable to parse id_token: %w: %w", op, ErrMalformedToken, err)
	}
	if err := tok.UnsafeClaimsWithoutVerification(claims); err != nil {
		return fmt.Errorf("%s: unable to read id_token claims: %w: %w", op, ErrMalformedToken, err)
	}
	return nil
}

// VerifyNonce verifies the token's nonce claim matches the request's nonce.
func (t IDToken) VerifyNonce(nonce string) error {
	const op = "IDToken.VerifyNonce"
	if nonce == "" {
		return fmt.Errorf("%s: nonce is empty: %w", op, ErrInvalidParameter)
	}
	var c struct {
		Nonce string `json:"nonce"`
	}
	if err := t.Claims(&c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if subtle.ConstantTimeCompare([]byte(c.Nonce), []byte(nonce)) != 1 {
		return fmt.Errorf("%s: id_token nonce does not match request nonce: %w", op, ErrInvalidNonce)
	}
	return nil
}

// AccessToken is an oauth access_token returned directly via the user agent.
type AccessToken string

// RedactedAccessToken is the redacted string or json for an oauth
// access_token.
const RedactedAccessToken = "[REDACTED: access_token]"

// String will redact the token.
func (t AccessToken) String() string {
	return RedactedAccessToken
}

// MarshalJSON will redact the token.
func (t AccessToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedAccessToken)
}
