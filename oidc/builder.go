// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

// reservedParams are set by the Builder and can't be overridden via extra
// params.  They're dropped from a Request's ExtraParams.
var reservedParams = map[string]bool{
	"client_id":             true,
	"redirect_uri":          true,
	"response_type":         true,
	"scope":                 true,
	"state":                 true,
	"code_challenge":        true,
	"code_challenge_method": true,
}

// Builder composes authorization requests for one provider Policy.  A
// Builder holds no per request state and may be shared; callers must
// serialize builds of the same request instance (see Controller).
type Builder struct {
	policy *Policy
	replay *ReplayManager
	logger hclog.Logger
	now    func() time.Time
}

// NewBuilder creates a Builder for the policy.
//
// Supported options: WithHexGenerator, WithPKCEGenerator, WithLogger, WithNow
func NewBuilder(policy *Policy, opt ...Option) (*Builder, error) {
	const op = "oidc.NewBuilder"
	if policy == nil {
		return nil, fmt.Errorf("%s: policy is nil: %w", op, ErrNilParameter)
	}
	opts := getBuilderOpts(opt...)
	return &Builder{
		policy: policy,
		replay: NewReplayManager(opts.withHexGenerator, opts.withPKCEGenerator),
		logger: opts.withLogger,
		now:    opts.withNowFunc,
	}, nil
}

// Policy returns the builder's provider policy.
func (b *Builder) Policy() *Policy { return b.policy }

// Build resolves the config on the platform and composes a Request against
// the discovery document's authorization endpoint.
//
// The prior replay state is the state returned by the previous build of the
// same instance (Request.ReplayState), or a zero ReplayState for a new
// instance.  Its PKCE verifier and nonce are reused; the CSRF state is always
// new.  Resolve errors, including *MissingClientIDError, are returned as-is.
func (b *Builder) Build(ctx context.Context, c *Config, p Platform, d *Discovery, prior ReplayState) (*Request, error) {
	const op = "Builder.Build"
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	params, err := Resolve(c, p, b.policy)
	if err != nil {
		return nil, err
	}

	replay := prior
	if replay.InstanceID == "" {
		if replay, err = NewReplayState(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	var verifier CodeVerifier
	if params.UsePKCE {
		if verifier, err = b.replay.EnsurePKCE(ctx, &replay); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	extra := make(map[string]string, len(params.ExtraParams)+1)
	for k, v := range params.ExtraParams {
		if reservedParams[k] {
			b.logger.Warn("ignoring reserved extra param", "param", k)
			continue
		}
		extra[k] = v
	}
	if b.policy.requiresNonce(params.ResponseType) {
		n, err := b.replay.EnsureNonce(ctx, &replay, extra)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		extra[NonceParam] = n
	}
	params.ExtraParams = extra

	state, err := b.replay.NewState(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r := &Request{
		params:    *params,
		replay:    replay,
		state:     state,
		endpoint:  d.AuthorizationEndpoint,
		createdAt: b.now(),
	}
	r.authURL = b.authURL(r, verifier)

	b.logger.Debug("built authorization request",
		"provider", b.policy.Name,
		"instance", replay.InstanceID,
		"slot", params.ClientIDSlot,
		"response_type", params.ResponseType,
		"pkce", params.UsePKCE,
	)
	return r, nil
}

func (b *Builder) authURL(r *Request, v CodeVerifier) string {
	oauth2Config := oauth2.Config{
		ClientID:    r.params.ClientID,
		RedirectURL: r.params.RedirectURL,
		Endpoint:    oauth2.Endpoint{AuthURL: r.endpoint},
		Scopes:      r.params.Scopes,
	}
	authCodeOpts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_type", string(r.params.ResponseType)),
	}
	if r.params.UsePKCE {
		authCodeOpts = append(authCodeOpts,
			oauth2.SetAuthURLParam("code_challenge", v.Challenge()),
			oauth2.SetAuthURLParam("code_challenge_method", string(v.Method())),
		)
	}

	keys := make([]string, 0, len(r.params.ExtraParams))
	for k := range r.params.ExtraParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		authCodeOpts = append(authCodeOpts, oauth2.SetAuthURLParam(k, r.params.ExtraParams[k]))
	}
	return oauth2Config.AuthCodeURL(r.state, authCodeOpts...)
}

// builderOptions is the set of available options for NewBuilder
type builderOptions struct {
	withHexGenerator  HexGenerator
	withPKCEGenerator PKCEGenerator
	withLogger        hclog.Logger
	withNowFunc       func() time.Time
}

// builderDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func builderDefaults() builderOptions {
	return builderOptions{
		withLogger:  hclog.NewNullLogger(),
		withNowFunc: time.Now,
	}
}

// getBuilderOpts gets the builder defaults and applies the opt overrides
// passed in.
func getBuilderOpts(opt ...Option) builderOptions {
	opts := builderDefaults()
	ApplyOpts(&opts, opt...)
	if opts.withLogger == nil {
		opts.withLogger = hclog.NewNullLogger()
	}
	if opts.withNowFunc == nil {
		opts.withNowFunc = time.Now
	}
	return opts
}

// WithHexGenerator provides an optional HexGenerator used for nonces and CSRF
// states.
func WithHexGenerator(g HexGenerator) Option {
	return func(o interface{}) {
		if o, ok := o.(*builderOptions); ok {
			o.withHexGenerator = g
		}
	}
}

// WithPKCEGenerator provides an optional PKCEGenerator.
func WithPKCEGenerator(g PKCEGenerator) Option {
	return func(o interface{}) {
		if o, ok := o.(*builderOptions); ok {
			o.withPKCEGenerator = g
		}
	}
}
