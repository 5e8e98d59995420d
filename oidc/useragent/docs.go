// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
Package useragent provides oidc.Agent implementations.

Browser launches the system browser and receives the provider's redirect on
a loopback http listener (RFC 8252 section 7.3), so it's only usable with an
http://127.0.0.1:<port>/<path> or http://localhost:<port>/<path> redirect URL.
Query and form_post redirects, including provider errors, are delivered to
the caller as an oidc.AgentResponse.
*/
package useragent
