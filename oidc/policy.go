// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import "github.com/coreos/go-oidc/v3/oidc"

// Prompt values for the "prompt" authorization request parameter.
// See: https://openid.net/specs/openid-connect-core-1_0.html#AuthRequest
const (
	PromptNone          = "none"
	PromptLogin         = "login"
	PromptConsent       = "consent"
	PromptSelectAccount = "select_account"
)

// Policy specializes a generic authorization request for one provider.
// Providers supply a Policy value rather than a new request type.
type Policy struct {
	// Name of the provider, used in logs.
	Name string

	// MinimumScopes are always requested.
	MinimumScopes []string

	// RequiresNonce reports whether a nonce must be sent for the response
	// type. Defaults to DefaultRequiresNonce when nil.
	RequiresNonce func(ResponseType) bool

	// AttachSecret reports whether a caller supplied client secret may be
	// kept for the response type. Defaults to DefaultAttachSecret when nil.
	AttachSecret func(ResponseType) bool

	// LanguageParam is the parameter name for the Config's Language.
	// Defaults to "hl".
	LanguageParam string

	// Window is the default viewport for prompting.
	Window AgentOptions
}

// DefaultPolicy returns a policy requiring only the "openid" scope.
func DefaultPolicy() *Policy {
	return &Policy{
		Name:          "oidc",
		MinimumScopes: []string{oidc.ScopeOpenID},
	}
}

// DefaultRequiresNonce requires a nonce whenever an id_token is returned
// directly from the authorization endpoint.
func DefaultRequiresNonce(r ResponseType) bool {
	return r.Has(IDTokenResponse)
}

// DefaultAttachSecret drops the client secret for flows which return an
// authorization code, since the secret belongs to a confidential token
// exchange which this package doesn't perform.
func DefaultAttachSecret(r ResponseType) bool {
	return !r.Has(CodeResponse)
}

func (p *Policy) requiresNonce(r ResponseType) bool {
	if p.RequiresNonce != nil {
		return p.RequiresNonce(r)
	}
	return DefaultRequiresNonce(r)
}

func (p *Policy) attachSecret(r ResponseType) bool {
	if p.AttachSecret != nil {
		return p.AttachSecret(r)
	}
	return DefaultAttachSecret(r)
}

func (p *Policy) languageParam() string {
	if p.LanguageParam != "" {
		return p.LanguageParam
	}
	return "hl"
}
