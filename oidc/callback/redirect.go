// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/authreq/oidc"
)

// Params returns the redirect's parameters from either the body or query
// parameters. Body values take priority, matching http.Request.FormValue.
func Params(req *http.Request) (url.Values, error) {
	const op = "callback.Params"
	if req == nil {
		return nil, fmt.Errorf("%s: request is nil: %w", op, oidc.ErrNilParameter)
	}
	if err := req.ParseForm(); err != nil {
		return nil, fmt.Errorf("%s: unable to parse form: %w: %w", op, oidc.ErrInvalidParameter, err)
	}
	out := url.Values{}
	for k, v := range req.URL.Query() {
		out[k] = v
	}
	for k, v := range req.PostForm {
		out[k] = v
	}
	return out, nil
}

// ParseRedirectURL returns the parameters of a redirect URL delivered to the
// application directly (for example a custom scheme deep link).  Implicit
// flows return their parameters in the fragment; fragment values take
// priority over query values.
func ParseRedirectURL(raw string) (url.Values, error) {
	const op = "callback.ParseRedirectURL"
	if raw == "" {
		return nil, fmt.Errorf("%s: redirect URL is empty: %w", op, oidc.ErrInvalidParameter)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to parse redirect URL: %w: %w", op, oidc.ErrInvalidParameter, err)
	}
	out := u.Query()
	if u.Fragment != "" {
		frag, err := url.ParseQuery(u.EscapedFragment())
		if err != nil {
			return nil, fmt.Errorf("%s: unable to parse redirect fragment: %w: %w", op, oidc.ErrInvalidParameter, err)
		}
		for k, v := range frag {
			out[k] = v
		}
	}
	return out, nil
}

// Response returns an oidc.AgentResponse for a redirect URL delivered to the
// application directly.
func Response(redirectURL string) (*oidc.AgentResponse, error) {
	const op = "callback.Response"
	params, err := ParseRedirectURL(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &oidc.AgentResponse{Type: oidc.ResultSuccess, Params: params}, nil
}
