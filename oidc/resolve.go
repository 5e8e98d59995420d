// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"fmt"

	"github.com/hashicorp/authreq/oidc/internal/strutils"
	"golang.org/x/text/language"
)

// ResolvedParameters are the effective parameters of an authorization
// request for one Config and Platform snapshot.  They're immutable once
// resolved.
type ResolvedParameters struct {
	// Scopes requested, without duplicates.  The policy's minimum scopes are
	// always included.
	Scopes []string

	// ClientID is the effective client id.
	ClientID string

	// ClientIDSlot is the slot the platform selected.  ClientID may come from
	// the generic client id when the slot was empty.
	ClientIDSlot Slot

	// RedirectURL is the effective redirect URL.
	RedirectURL string

	// ExtraParams are the effective extra parameters.
	ExtraParams map[string]string

	// ClientSecret is empty unless the policy allows it for the response type.
	ClientSecret ClientSecret

	// ResponseType is the effective response type.
	ResponseType ResponseType

	// UsePKCE is false for implicit flows, regardless of the Config.
	UsePKCE bool
}

// Resolve the effective parameters for the config on the platform.  A
// *MissingClientIDError is returned when neither the platform's slot nor the
// generic client id is set.
func Resolve(c *Config, p Platform, policy *Policy) (*ResolvedParameters, error) {
	const op = "oidc.Resolve"
	if c == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	if policy == nil {
		return nil, fmt.Errorf("%s: policy is nil: %w", op, ErrNilParameter)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	clientID, slot, err := resolveClientID(c, p)
	if err != nil {
		return nil, err
	}

	redirectURL := c.RedirectURL
	if redirectURL == "" {
		redirectURL, err = p.DefaultRedirectURL()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	rt := c.responseType()
	r := &ResolvedParameters{
		Scopes:       resolveScopes(c.Scopes, policy.MinimumScopes),
		ClientID:     clientID,
		ClientIDSlot: slot,
		RedirectURL:  redirectURL,
		ExtraParams:  resolveExtraParams(c, policy),
		ResponseType: rt,
		UsePKCE:      !c.DisablePKCE && !rt.IsImplicit(),
	}
	if policy.attachSecret(rt) {
		r.ClientSecret = c.ClientSecret
	}
	return r, nil
}

func resolveClientID(c *Config, p Platform) (string, Slot, error) {
	slot := p.Slot()
	if id := slot.ClientID(c); id != "" {
		return id, slot, nil
	}
	if c.ClientID != "" {
		return c.ClientID, slot, nil
	}
	return "", slot, &MissingClientIDError{Slot: slot}
}

func resolveScopes(scopes, minimum []string) []string {
	all := make([]string, 0, len(scopes)+len(minimum))
	all = append(all, scopes...)
	all = append(all, minimum...)
	return strutils.RemoveDuplicatesStable(all, false)
}

// resolveExtraParams starts from the caller's extra params; policy derived
// values never overwrite a key the caller set explicitly.  The Config's
// Language/LoginHint are only ever sent under their mapped key.
func resolveExtraParams(c *Config, policy *Policy) map[string]string {
	out := make(map[string]string, len(c.ExtraParams)+3)
	for k, v := range c.ExtraParams {
		out[k] = v
	}
	setDefault := func(k, v string) {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	if c.Language != language.Und {
		setDefault(policy.languageParam(), c.Language.String())
	}
	if c.LoginHint != "" {
		setDefault("login_hint", c.LoginHint)
	}
	if c.SelectAccount {
		setDefault("prompt", PromptSelectAccount)
	}
	return out
}
