// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"io"

	"github.com/hashicorp/authreq/oidc"
)

// output is the JSON printed once a prompt resolves.  Tokens and codes are
// redacted unless showSecrets is set.
type output struct {
	Instance    string                 `json:"instance"`
	Result      oidc.ResultType        `json:"result"`
	Code        string                 `json:"code,omitempty"`
	AccessToken interface{}            `json:"access_token,omitempty"`
	TokenType   string                 `json:"token_type,omitempty"`
	ExpiresIn   int                    `json:"expires_in,omitempty"`
	Scope       string                 `json:"scope,omitempty"`
	IDToken     interface{}            `json:"id_token,omitempty"`
	Claims      map[string]interface{} `json:"id_token_claims,omitempty"`
	Verifier    string                 `json:"code_verifier,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

const redactedCode = "[REDACTED: authorization code]"

func newOutput(req *oidc.Request, res *oidc.Result, showSecrets bool) output {
	out := output{
		Instance:  req.ID(),
		Result:    res.Type,
		TokenType: res.TokenType,
		ExpiresIn: res.ExpiresIn,
		Scope:     res.Scope,
	}
	if res.Error != nil {
		out.Error = res.Error.Error()
	}
	if res.Code != "" {
		out.Code = redactedCode
		if showSecrets {
			out.Code = res.Code
			out.Verifier = req.PKCEVerifier().Verifier()
		}
	}
	if res.AccessToken != "" {
		out.AccessToken = res.AccessToken
		if showSecrets {
			out.AccessToken = string(res.AccessToken)
		}
	}
	if res.IDToken != "" {
		out.IDToken = res.IDToken
		if showSecrets {
			out.IDToken = string(res.IDToken)
		}
		var claims map[string]interface{}
		if err := res.IDToken.Claims(&claims); err == nil {
			out.Claims = claims
		}
	}
	return out
}

func (o output) write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(o)
}
