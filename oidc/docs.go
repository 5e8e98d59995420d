// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
Package oidc builds OAuth 2.0 / OpenID Connect authorization requests for
native, web and proxied clients, and drives them through a user agent.

Primary types provided by the package:

* Config: the caller's, possibly partial, configuration of a request (per
platform client ids, scopes, response type, locale and login hints, etc).

* Platform: a read-only snapshot of the host's capabilities.  It selects the
client id slot and the default redirect URL.

* Policy: provider specific behavior (minimum scopes, when a nonce is
required, when a client secret may be kept).  See the providers/google
package for an example.

* Builder: resolves a Config on a Platform and composes a Request, including
its PKCE verifier, nonce and CSRF state.

* Request: a fully resolved authorization request.  Its AuthURL() is the only
thing handed to a user agent.

* Controller: the request -> prompt -> result state machine.

* Result: the classified outcome of a prompt: success, error, cancel or
dismiss.

The oidc/callback package turns redirects received by an http listener into
agent responses, and the oidc/useragent package provides an Agent which
launches the system browser and listens for the redirect on a loopback
address.

Token exchange, refresh, revocation and user info requests are out of scope;
Request.VerifierOption() and Discovery.Endpoint() provide what a
golang.org/x/oauth2 exchange needs.
*/
package oidc
