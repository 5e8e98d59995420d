// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"fmt"
	"strconv"
)

// ResultType discriminates a Result.
type ResultType string

const (
	// ResultSuccess means the provider redirected back with a valid response.
	ResultSuccess ResultType = "success"

	// ResultError means the provider returned an error, or the response
	// failed validation.
	ResultError ResultType = "error"

	// ResultCancel means the user declined to complete the prompt.
	ResultCancel ResultType = "cancel"

	// ResultDismiss means the prompt was dismissed before a response was
	// received (including caller cancellation).
	ResultDismiss ResultType = "dismiss"
)

// Result is the classified outcome of prompting a Request.
type Result struct {
	Type ResultType

	// State is the state returned by the provider.  For a success it always
	// equals the Request's state.
	State string

	// Code is the authorization code (code flow).
	Code string

	// AccessToken, TokenType, ExpiresIn and Scope are set by the implicit
	// token flow.  ExpiresIn is zero when expires_in is absent or isn't an
	// integer; the raw value is always kept in Params.
	AccessToken AccessToken
	TokenType   string
	ExpiresIn   int
	Scope       string

	// IDToken is set by id_token flows.
	IDToken IDToken

	// Params are all of the redirect's parameters.
	Params map[string]string

	// Error is set for ResultError.  It's either an *AuthError passed
	// through from the provider, or a validation error wrapping
	// ErrResponseStateInvalid, ErrInvalidNonce or ErrInvalidParameter.
	Error error
}

// Succeeded reports whether the result is a success.
func (r *Result) Succeeded() bool {
	return r != nil && r.Type == ResultSuccess
}

// Classify validates the agent's response against the request and reduces
// it to a Result.  The returned state must match the request's state before
// anything else is considered, so a mismatched response is never a success.
func Classify(req *Request, resp *AgentResponse) *Result {
	const op = "oidc.Classify"
	if req == nil {
		return errorResult(nil, fmt.Errorf("%s: request is nil: %w", op, ErrNilParameter))
	}
	if resp == nil {
		return errorResult(nil, fmt.Errorf("%s: agent response is nil: %w", op, ErrNilParameter))
	}
	params := make(map[string]string, len(resp.Params))
	for k := range resp.Params {
		params[k] = resp.Params.Get(k)
	}

	switch resp.Type {
	case ResultCancel, ResultDismiss:
		return &Result{Type: resp.Type, Params: params}
	case ResultSuccess, ResultError:
	default:
		return errorResult(params, fmt.Errorf("%s: unknown agent response type %q: %w", op, resp.Type, ErrInvalidParameter))
	}

	if err := req.ValidateState(params["state"]); err != nil {
		return errorResult(params, fmt.Errorf("%s: %w", op, err))
	}
	if code := params["error"]; code != "" || resp.Type == ResultError {
		return errorResult(params, &AuthError{
			Code:        code,
			Description: params["error_description"],
			URI:         params["error_uri"],
		})
	}

	r := &Result{
		Type:        ResultSuccess,
		State:       params["state"],
		Code:        params["code"],
		AccessToken: AccessToken(params["access_token"]),
		TokenType:   params["token_type"],
		Scope:       params["scope"],
		IDToken:     IDToken(params["id_token"]),
		Params:      params,
	}
	if v := params["expires_in"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.ExpiresIn = n
		}
	}

	rt := req.ResponseType()
	switch {
	case rt.Has(CodeResponse) && r.Code == "":
		return errorResult(params, fmt.Errorf("%s: authorization code is missing: %w", op, ErrInvalidParameter))
	case rt.Has(TokenResponse) && r.AccessToken == "":
		return errorResult(params, fmt.Errorf("%s: access_token is missing: %w", op, ErrInvalidParameter))
	case rt.Has(IDTokenResponse) && r.IDToken == "":
		return errorResult(params, fmt.Errorf("%s: id_token is missing: %w", op, ErrInvalidParameter))
	}
	if r.IDToken != "" && req.Nonce() != "" {
		if err := r.IDToken.VerifyNonce(req.Nonce()); err != nil {
			return errorResult(params, fmt.Errorf("%s: %w", op, err))
		}
	}
	return r
}

func errorResult(params map[string]string, err error) *Result {
	r := &Result{Type: ResultError, Params: params, Error: err}
	if params != nil {
		r.State = params["state"]
	}
	return r
}
