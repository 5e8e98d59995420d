// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/language"
)

// ClientSecret is an oauth client secret.
type ClientSecret string

// RedactedClientSecret is the redacted string or json for an oauth client secret.
const RedactedClientSecret = "[REDACTED: client secret]"

// String will redact the client secret.
func (t ClientSecret) String() string {
	return RedactedClientSecret
}

// MarshalJSON will redact the client secret.
func (t ClientSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedClientSecret)
}

// ResponseType is an oauth response_type.  Its value is one or more space
// separated response types, so it's extensible beyond the constants below.
type ResponseType string

const (
	// CodeResponse requests an authorization code.
	CodeResponse ResponseType = "code"

	// TokenResponse requests an access_token directly (implicit flow).
	TokenResponse ResponseType = "token"

	// IDTokenResponse requests an id_token directly (implicit flow).
	IDTokenResponse ResponseType = "id_token"
)

// Has reports whether rt is one of the response types requested.
func (r ResponseType) Has(rt ResponseType) bool {
	for _, v := range strings.Fields(string(r)) {
		if v == string(rt) {
			return true
		}
	}
	return false
}

// IsImplicit reports whether the response type results in an implicit flow,
// where no authorization code is returned.
func (r ResponseType) IsImplicit() bool {
	return !r.Has(CodeResponse)
}

// Config is the caller supplied, possibly partial, configuration for an
// authorization request.  Per platform client ids are chosen via the
// Platform's Slot(), falling back to ClientID.
type Config struct {
	// ClientID is the generic client id, used when the platform's slot is
	// empty.
	ClientID string

	// ProxyClientID is used when the redirect goes through a proxy.
	ProxyClientID string

	// IOSClientID is used on iOS.
	IOSClientID string

	// AndroidClientID is used on Android.
	AndroidClientID string

	// WebClientID is used in a browser.
	WebClientID string

	// NativeClientID is used by native desktop applications.
	NativeClientID string

	// ClientSecret is only attached to the resolved parameters for response
	// types which don't return an authorization code.
	ClientSecret ClientSecret

	// Scopes is a list of additional scopes to request.  The provider policy's
	// minimum scopes are always added.
	Scopes []string

	// ResponseType defaults to CodeResponse.
	ResponseType ResponseType

	// RedirectURL overrides the platform's default redirect.
	RedirectURL string

	// ExtraParams are sent as-is with the authorization request.  Keys set
	// here win over policy derived values (hl, login_hint, prompt).
	ExtraParams map[string]string

	// Language is an optional locale hint.
	Language language.Tag

	// LoginHint is an optional login hint (typically an email address).
	LoginHint string

	// SelectAccount forces the provider to show its account chooser.
	SelectAccount bool

	// DisablePKCE turns off PKCE for the code flow.  PKCE is always off for
	// implicit flows.
	DisablePKCE bool
}

// Validate the config's structure.  It doesn't verify that a client id can be
// resolved, since that depends on the platform (see Resolve).
func (c *Config) Validate() error {
	const op = "Config.Validate"
	if c == nil {
		return fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	var result *multierror.Error
	if c.ResponseType != "" {
		seen := map[string]bool{}
		fields := strings.Fields(string(c.ResponseType))
		if len(fields) == 0 {
			result = multierror.Append(result, fmt.Errorf("response type %q is blank: %w", c.ResponseType, ErrUnsupportedResponseType))
		}
		for _, rt := range fields {
			if !validResponseType(rt) {
				result = multierror.Append(result, fmt.Errorf("response type %q is invalid: %w", rt, ErrUnsupportedResponseType))
			}
			if seen[rt] {
				result = multierror.Append(result, fmt.Errorf("response type %q is duplicated: %w", rt, ErrUnsupportedResponseType))
			}
			seen[rt] = true
		}
	}
	for k := range c.ExtraParams {
		if strings.TrimSpace(k) == "" {
			result = multierror.Append(result, fmt.Errorf("extra param key is empty: %w", ErrInvalidParameter))
		}
	}
	for _, s := range c.Scopes {
		if strings.ContainsAny(s, " \t\n") {
			result = multierror.Append(result, fmt.Errorf("scope %q contains whitespace: %w", s, ErrInvalidParameter))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func validResponseType(rt string) bool {
	for _, r := range rt {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return rt != ""
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Scopes != nil {
		clone.Scopes = append([]string(nil), c.Scopes...)
	}
	if c.ExtraParams != nil {
		clone.ExtraParams = make(map[string]string, len(c.ExtraParams))
		for k, v := range c.ExtraParams {
			clone.ExtraParams[k] = v
		}
	}
	return &clone
}

// configCmpOpts treat nil and empty Scopes or ExtraParams as equal.
var configCmpOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmp.Comparer(func(a, b language.Tag) bool { return a == b }),
}

// Equal reports whether both configs would resolve to the same parameters
// for the same platform.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return cmp.Equal(*c, *other, configCmpOpts...)
}

func (c *Config) responseType() ResponseType {
	if c.ResponseType == "" {
		return CodeResponse
	}
	return c.ResponseType
}
