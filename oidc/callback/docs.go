// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
callback is a package that provides callbacks (in the form of http.HandlerFunc)
for receiving a provider's authorization response redirect, for the
authorization code flow (with optional PKCE) and the implicit flow
(response_mode=form_post).

The handlers don't validate the response: they only collect its parameters
into an oidc.AgentResponse, which the oidc.Controller validates against the
request it issued.
*/
package callback
