// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"html/template"
	"net/http"

	"github.com/hashicorp/authreq/oidc"
)

// SuccessResponseFunc is used by callbacks to create a http response when a
// redirect without an error is received.
//
// The function state parameter will contain the state that was returned as
// part of the redirect.  The state has not been validated yet, so the
// response must not claim the authentication succeeded.
type SuccessResponseFunc func(state string, w http.ResponseWriter, req *http.Request)

// ErrorResponseFunc is used by callbacks to create a http response when the
// redirect carries an oauth error, or the redirect could not be read.
//
// Exactly one of respErr or e is set.
type ErrorResponseFunc func(state string, respErr *oidc.AuthError, e error, w http.ResponseWriter, req *http.Request)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1 id="title">{{.Title}}</h1>
<p id="message">{{.Message}}</p>
</body>
</html>
`))

type page struct {
	Title   string
	Message string
}

func writePage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = pageTmpl.Execute(w, p)
}

// DefaultSuccess writes a page telling the user to return to the
// application.
func DefaultSuccess(_ string, w http.ResponseWriter, _ *http.Request) {
	writePage(w, http.StatusOK, page{
		Title:   "Authorization response received",
		Message: "You may close this window and return to the application.",
	})
}

// DefaultError writes a page describing the error.
func DefaultError(_ string, respErr *oidc.AuthError, e error, w http.ResponseWriter, _ *http.Request) {
	switch {
	case respErr != nil:
		writePage(w, http.StatusUnauthorized, page{
			Title:   "Authorization failed",
			Message: respErr.Error(),
		})
	case e != nil:
		writePage(w, http.StatusBadRequest, page{
			Title:   "Invalid authorization response",
			Message: e.Error(),
		})
	default:
		writePage(w, http.StatusInternalServerError, page{
			Title:   "Authorization failed",
			Message: "unknown error",
		})
	}
}
