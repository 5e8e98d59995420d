// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"crypto/subtle"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Request is a fully resolved authorization request, ready to send.  It's
// created by a Builder and retained by the Controller so the eventual
// response can be validated against it.  Only AuthURL() is handed to the
// user agent.
type Request struct {
	params    ResolvedParameters
	replay    ReplayState
	state     string
	endpoint  string
	authURL   string
	createdAt time.Time
}

// ID returns the request's instance id.  It's stable across rebuilds of the
// same instance.
func (r *Request) ID() string { return r.replay.InstanceID }

// State returns the CSRF state sent with the request.
func (r *Request) State() string { return r.state }

// Nonce returns the nonce sent with the request, if any.  A nonce supplied
// via the Config's extra params is returned as well.
func (r *Request) Nonce() string { return r.params.ExtraParams[NonceParam] }

// PKCEVerifier returns the request's code verifier.  It's zero when PKCE is
// not used.
func (r *Request) PKCEVerifier() CodeVerifier {
	if !r.params.UsePKCE {
		return CodeVerifier{}
	}
	return r.replay.Verifier
}

// VerifierOption returns the oauth2 option which sends the code verifier
// with a token exchange.  It returns nil when PKCE is not used.
func (r *Request) VerifierOption() oauth2.AuthCodeOption {
	v := r.PKCEVerifier()
	if v.IsZero() {
		return nil
	}
	return oauth2.VerifierOption(v.Verifier())
}

// ClientID returns the effective client id.
func (r *Request) ClientID() string { return r.params.ClientID }

// ClientSecret returns the effective client secret, which is empty for flows
// returning an authorization code.
func (r *Request) ClientSecret() ClientSecret { return r.params.ClientSecret }

// RedirectURL returns the effective redirect URL.
func (r *Request) RedirectURL() string { return r.params.RedirectURL }

// ResponseType returns the effective response type.
func (r *Request) ResponseType() ResponseType { return r.params.ResponseType }

// UsePKCE reports whether the request uses PKCE.
func (r *Request) UsePKCE() bool { return r.params.UsePKCE }

// Endpoint returns the authorization endpoint.
func (r *Request) Endpoint() string { return r.endpoint }

// AuthURL returns the authorization URL to hand to the user agent.
func (r *Request) AuthURL() string { return r.authURL }

// CreatedAt returns when the request was built.
func (r *Request) CreatedAt() time.Time { return r.createdAt }

// Scopes returns a copy of the effective scopes.
func (r *Request) Scopes() []string {
	return append([]string(nil), r.params.Scopes...)
}

// ExtraParams returns a copy of the effective extra parameters.
func (r *Request) ExtraParams() map[string]string {
	out := make(map[string]string, len(r.params.ExtraParams))
	for k, v := range r.params.ExtraParams {
		out[k] = v
	}
	return out
}

// ReplayState returns the replay state to carry into the next build of the
// same instance.
func (r *Request) ReplayState() ReplayState { return r.replay }

// ValidateState verifies the state returned by the provider matches the
// request's state.
func (r *Request) ValidateState(state string) error {
	const op = "Request.ValidateState"
	if state == "" {
		return fmt.Errorf("%s: response state is empty: %w", op, ErrResponseStateInvalid)
	}
	if subtle.ConstantTimeCompare([]byte(state), []byte(r.state)) != 1 {
		return fmt.Errorf("%s: request state and response state are not equal: %w", op, ErrResponseStateInvalid)
	}
	return nil
}
