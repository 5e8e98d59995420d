// Copyright IBM Corp. 2020, 2025
// SPDX-License-Identifier: MPL-2.0

// authreq builds OAuth 2.0 / OpenID Connect authorization requests for
// native, web and proxied clients: it resolves per platform client ids,
// redirect URLs and scopes, generates PKCE verifiers, nonces and CSRF states,
// composes the authorization URL and drives the prompt through a user agent.
//
// See the oidc, oidc/callback, oidc/useragent and providers/google packages.
package authreq
