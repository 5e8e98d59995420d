// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

// Discovery is a provider's set of endpoints.  It's read-only once created
// and safe to share between controllers.
type Discovery struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint,omitempty"`
	RevocationEndpoint    string `json:"revocation_endpoint,omitempty"`
	UserInfoEndpoint      string `json:"userinfo_endpoint,omitempty"`
}

// Endpoint returns the discovery document as an oauth2.Endpoint, which
// callers can use for the token exchange that follows a code flow.
func (d *Discovery) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:  d.AuthorizationEndpoint,
		TokenURL: d.TokenEndpoint,
	}
}

// Validate verifies the discovery document has an authorization endpoint.
// The URLs themselves are not validated.
func (d *Discovery) Validate() error {
	const op = "Discovery.Validate"
	if d == nil {
		return fmt.Errorf("%s: discovery is nil: %w", op, ErrNilParameter)
	}
	if d.AuthorizationEndpoint == "" {
		return fmt.Errorf("%s: authorization endpoint is empty: %w", op, ErrInvalidParameter)
	}
	return nil
}

// NewDiscovery fetches the issuer's OIDC discovery document
// (/.well-known/openid-configuration).  This is a convenience for callers;
// the request engine itself never makes network requests.
//
// Supported options: WithProviderCA, WithLogger
func NewDiscovery(ctx context.Context, issuer string, opt ...Option) (*Discovery, error) {
	const op = "oidc.NewDiscovery"
	if issuer == "" {
		return nil, fmt.Errorf("%s: issuer is empty: %w", op, ErrInvalidParameter)
	}
	opts := getDiscoveryOpts(opt...)
	client, err := HTTPClient(opts.withProviderCA)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create http client: %w", op, err)
	}
	opts.withLogger.Debug("fetching discovery document", "issuer", issuer)
	p, err := oidc.NewProvider(oidc.ClientContext(ctx, client), issuer) // makes http req to issuer for discovery
	if err != nil {
		return nil, fmt.Errorf("%s: unable to discover provider: %w", op, err)
	}
	var claims struct {
		RevocationEndpoint string `json:"revocation_endpoint"`
	}
	if err := p.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s: unable to read discovery claims: %w", op, err)
	}
	e := p.Endpoint()
	d := &Discovery{
		AuthorizationEndpoint: e.AuthURL,
		TokenEndpoint:         e.TokenURL,
		RevocationEndpoint:    claims.RevocationEndpoint,
		UserInfoEndpoint:      p.UserInfoEndpoint(),
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

// HTTPClient creates a new http client which will use the optional CA
// certificate PEM if provided, otherwise it will use the installed system CA
// chain.
func HTTPClient(caPEM string) (*http.Client, error) {
	const op = "oidc.HTTPClient"
	tr := cleanhttp.DefaultPooledTransport()
	if caPEM != "" {
		certPool := x509.NewCertPool()
		if ok := certPool.AppendCertsFromPEM([]byte(caPEM)); !ok {
			return nil, fmt.Errorf("%s: could not parse CA PEM value successfully: %w", op, ErrInvalidCACert)
		}
		tr.TLSClientConfig = &tls.Config{
			RootCAs:    certPool,
			MinVersion: tls.VersionTLS12,
		}
	}
	return &http.Client{
		Transport: tr,
	}, nil
}

// discoveryOptions is the set of available options for NewDiscovery
type discoveryOptions struct {
	withProviderCA string
	withLogger     hclog.Logger
}

// discoveryDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func discoveryDefaults() discoveryOptions {
	return discoveryOptions{
		withLogger: hclog.NewNullLogger(),
	}
}

// getDiscoveryOpts gets the defaults and applies the opt overrides passed in.
func getDiscoveryOpts(opt ...Option) discoveryOptions {
	opts := discoveryDefaults()
	ApplyOpts(&opts, opt...)
	if opts.withLogger == nil {
		opts.withLogger = hclog.NewNullLogger()
	}
	return opts
}

// WithProviderCA provides an optional CA cert used by NewDiscovery.
func WithProviderCA(cert string) Option {
	return func(o interface{}) {
		if o, ok := o.(*discoveryOptions); ok {
			o.withProviderCA = cert
		}
	}
}
