// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"net/http"
	"sync"

	"github.com/hashicorp/authreq/oidc"
)

// Channel creates a one-time use redirect handler which communicates the
// redirect's parameters by writing an oidc.AgentResponse to the returned
// channel, which has a buffer of one and is never closed.  Only the first
// redirect is delivered; later requests receive http.StatusGone.  It's most
// appropriate for a localhost http listener within the same process that
// kicked off the authorization request.
//
// The SuccessResponseFunc is used to create a response when the redirect
// has no error parameter. The ErrorResponseFunc is used otherwise.  Nil funcs
// default to DefaultSuccess and DefaultError.
func Channel(sFn SuccessResponseFunc, eFn ErrorResponseFunc) (<-chan *oidc.AgentResponse, http.HandlerFunc) {
	if sFn == nil {
		sFn = DefaultSuccess
	}
	if eFn == nil {
		eFn = DefaultError
	}
	doneCh := make(chan *oidc.AgentResponse, 1)
	var once sync.Once
	return doneCh, func(w http.ResponseWriter, req *http.Request) {
		delivered := false
		once.Do(func() {
			delivered = true
			params, err := Params(req)
			if err != nil {
				eFn("", nil, err, w, req)
				doneCh <- &oidc.AgentResponse{Type: oidc.ResultError}
				return
			}
			reqState := params.Get("state")
			if code := params.Get("error"); code != "" {
				eFn(reqState, &oidc.AuthError{
					Code:        code,
					Description: params.Get("error_description"),
					URI:         params.Get("error_uri"),
				}, nil, w, req)
			} else {
				sFn(reqState, w, req)
			}
			doneCh <- &oidc.AgentResponse{Type: oidc.ResultSuccess, Params: params}
		})
		if !delivered {
			http.Error(w, "authorization response already received", http.StatusGone)
		}
	}
}
