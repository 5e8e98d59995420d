// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package google specializes oidc authorization requests for Google Sign-In.
package google

import (
	"fmt"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/authreq/oidc"
)

const (
	// Name of the provider, used in logs.
	Name = "google"

	// Issuer is Google's OIDC issuer, for callers who prefer discovery via
	// oidc.NewDiscovery over the static Discovery().
	Issuer = "https://accounts.google.com"

	ProfileScope = "https://www.googleapis.com/auth/userinfo.profile"
	EmailScope   = "https://www.googleapis.com/auth/userinfo.email"

	// WindowWidth and WindowHeight are the default prompt viewport.
	WindowWidth  = 515
	WindowHeight = 680
)

// Discovery returns Google's endpoints.
func Discovery() *oidc.Discovery {
	return &oidc.Discovery{
		AuthorizationEndpoint: "https://accounts.google.com/o/oauth2/v2/auth",
		TokenEndpoint:         "https://oauth2.googleapis.com/token",
		RevocationEndpoint:    "https://oauth2.googleapis.com/revoke",
		UserInfoEndpoint:      "https://openidconnect.googleapis.com/v1/userinfo",
	}
}

// Policy returns the Google policy.  The openid, profile and email scopes are
// always requested, the locale is sent as "hl" and a nonce is sent whenever
// an id_token is returned from the authorization endpoint.
func Policy() *oidc.Policy {
	return &oidc.Policy{
		Name:          Name,
		MinimumScopes: []string{gooidc.ScopeOpenID, ProfileScope, EmailScope},
		RequiresNonce: oidc.DefaultRequiresNonce,
		AttachSecret:  oidc.DefaultAttachSecret,
		LanguageParam: "hl",
		Window: oidc.AgentOptions{
			Width:  WindowWidth,
			Height: WindowHeight,
		},
	}
}

// NewController returns a Controller for Google on the platform.
//
// Supported options: oidc.WithLogger, oidc.WithHexGenerator,
// oidc.WithPKCEGenerator, oidc.WithNow
func NewController(p oidc.Platform, a oidc.Agent, opt ...oidc.Option) (*oidc.Controller, error) {
	const op = "google.NewController"
	b, err := oidc.NewBuilder(Policy(), opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := oidc.NewController(b, Discovery(), p, a, opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
