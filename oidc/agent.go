// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"net/url"
)

// AgentOptions are hints for the user agent.
type AgentOptions struct {
	// Width and Height of the prompt window, when the agent opens one.
	Width  int
	Height int

	// UseEmbeddedFlow asks the agent to use an embedded browser session.
	UseEmbeddedFlow bool

	// UseProxy means the redirect goes through a proxy service.
	UseProxy bool

	// RedirectURL is the request's redirect URL.  It's set by the Controller.
	RedirectURL string
}

// merge returns o with zero values taken from defaults.
func (o AgentOptions) merge(defaults AgentOptions) AgentOptions {
	if o.Width == 0 {
		o.Width = defaults.Width
	}
	if o.Height == 0 {
		o.Height = defaults.Height
	}
	if !o.UseEmbeddedFlow {
		o.UseEmbeddedFlow = defaults.UseEmbeddedFlow
	}
	if !o.UseProxy {
		o.UseProxy = defaults.UseProxy
	}
	return o
}

// AgentResponse is the raw, unvalidated outcome of a user agent
// interaction.
type AgentResponse struct {
	// Type is ResultSuccess when the agent received a redirect, in which case
	// Params holds the redirect's parameters (which may still describe a
	// provider error).
	Type ResultType

	// Params are the redirect's query, fragment or form parameters.
	Params url.Values
}

// Agent opens an authorization URL in a user agent and waits for the
// redirect.  Implementations must return promptly once ctx is done.
type Agent interface {
	Open(ctx context.Context, authURL string, opts AgentOptions) (*AgentResponse, error)
}

// AgentFunc adapts a func to an Agent.
type AgentFunc func(ctx context.Context, authURL string, opts AgentOptions) (*AgentResponse, error)

// Open implements the Agent interface.
func (f AgentFunc) Open(ctx context.Context, authURL string, opts AgentOptions) (*AgentResponse, error) {
	return f(ctx, authURL, opts)
}
