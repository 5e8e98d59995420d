// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Status is a Controller's lifecycle status.
type Status string

const (
	StatusUnloaded  Status = "unloaded"
	StatusLoading   Status = "loading"
	StatusLoaded    Status = "loaded"
	StatusPrompting Status = "prompting"
	StatusResolved  Status = "resolved"
)

// Controller drives one authorization request through its lifecycle:
//
//	unloaded -> loading -> loaded -> prompting -> resolved
//
// It exclusively owns one live Request at a time.  Builds are serialized and
// only one prompt may be in flight.  Nothing is retried automatically: a
// failed load or prompt requires an explicit Load or Reload by the caller.
//
// Controllers are independent of each other; a Discovery and Policy may be
// shared between them.
type Controller struct {
	builder   *Builder
	discovery *Discovery
	platform  Platform
	agent     Agent
	logger    hclog.Logger

	mu      sync.Mutex
	status  Status
	loading bool
	config  *Config
	loadErr error
	request *Request
	result  *Result
}

// NewController creates a Controller in the unloaded status.
//
// Supported options: WithLogger
func NewController(b *Builder, d *Discovery, p Platform, a Agent, opt ...Option) (*Controller, error) {
	const op = "oidc.NewController"
	switch {
	case b == nil:
		return nil, fmt.Errorf("%s: builder is nil: %w", op, ErrNilParameter)
	case a == nil:
		return nil, fmt.Errorf("%s: agent is nil: %w", op, ErrNilParameter)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	opts := getControllerOpts(opt...)
	return &Controller{
		builder:   b,
		discovery: d,
		platform:  p,
		agent:     a,
		logger:    opts.withLogger.With("provider", b.Policy().Name),
		status:    StatusUnloaded,
	}, nil
}

// Status returns the controller's current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Request returns the live request, or nil when none is loaded.
func (c *Controller) Request() *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.request
}

// Result returns the result of the last prompt, or nil.
func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Load builds a request for the config.  When the config equals the one the
// live request was built from, the same request instance is rebuilt (its
// PKCE verifier and nonce are reused); otherwise a new instance is started.
// Either way the CSRF state is new.
//
// On error, including a *MissingClientIDError, the controller is left
// unloaded and the error is returned.
func (c *Controller) Load(ctx context.Context, cfg *Config) (*Request, error) {
	const op = "Controller.Load"
	if cfg == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	return c.load(ctx, cfg.Clone(), true)
}

// Update recomputes the request only if the config changed since the last
// load.  It's meant to be called on every configuration change notification.
// An unchanged config that failed to load returns the same error without
// retrying.
func (c *Controller) Update(ctx context.Context, cfg *Config) (*Request, error) {
	const op = "Controller.Update"
	if cfg == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	c.mu.Lock()
	if c.config != nil && c.config.Equal(cfg) && !c.loading {
		req, err := c.request, c.loadErr
		c.mu.Unlock()
		return req, err
	}
	c.mu.Unlock()
	return c.load(ctx, cfg.Clone(), false)
}

// Reload forces a fresh request for the current config, typically after a
// prompt resolved or a load failed.  The instance's PKCE verifier and nonce
// are reused and a new CSRF state is minted.
func (c *Controller) Reload(ctx context.Context) (*Request, error) {
	const op = "Controller.Reload"
	c.mu.Lock()
	cfg := c.config
	c.mu.Unlock()
	if cfg == nil {
		return nil, fmt.Errorf("%s: nothing to reload: %w", op, ErrInvalidState)
	}
	return c.load(ctx, cfg, true)
}

func (c *Controller) load(ctx context.Context, cfg *Config, sameInstanceOK bool) (*Request, error) {
	const op = "Controller.load"
	c.mu.Lock()
	switch {
	case c.loading:
		c.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, ErrLoadInProgress)
	case c.status == StatusPrompting:
		c.mu.Unlock()
		return nil, fmt.Errorf("%s: request can't be replaced while prompting: %w", op, ErrPromptInProgress)
	}
	var prior ReplayState
	if c.request != nil && sameInstanceOK && c.config.Equal(cfg) {
		prior = c.request.ReplayState()
	}
	c.loading = true
	c.setStatus(StatusLoading)
	c.mu.Unlock()

	req, err := c.builder.Build(ctx, cfg, c.platform, c.discovery, prior)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.config = cfg
	c.result = nil
	if err != nil {
		c.request = nil
		c.loadErr = err
		c.setStatus(StatusUnloaded)
		c.logger.Error("unable to load authorization request", "error", err)
		return nil, err
	}
	c.request = req
	c.loadErr = nil
	c.setStatus(StatusLoaded)
	return req, nil
}

// Prompt hands the live request's authorization URL to the agent and waits
// for its response.  It's only valid in the loaded status; a second prompt
// while one is in flight returns ErrPromptInProgress.
//
// The policy's window hints fill in any zero AgentOptions, and UseProxy is
// set when the platform redirects through a proxy.  If ctx is done
// before the agent responds, the result is ResultDismiss.  Agent failures and
// failed validation are reported as ResultError; the returned error is only
// set when the prompt could not be started.
func (c *Controller) Prompt(ctx context.Context, opts AgentOptions) (*Result, error) {
	const op = "Controller.Prompt"
	c.mu.Lock()
	switch c.status {
	case StatusPrompting:
		c.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, ErrPromptInProgress)
	case StatusLoaded:
	default:
		status := c.status
		c.mu.Unlock()
		return nil, fmt.Errorf("%s: status is %s, not %s: %w", op, status, StatusLoaded, ErrInvalidState)
	}
	req := c.request
	opts = opts.merge(c.builder.Policy().Window)
	opts.RedirectURL = req.RedirectURL()
	opts.UseProxy = opts.UseProxy || c.platform.UseProxy
	c.setStatus(StatusPrompting)
	c.mu.Unlock()

	c.logger.Info("prompting for authorization", "instance", req.ID())
	resp, err := c.agent.Open(ctx, req.AuthURL(), opts)

	var res *Result
	switch {
	case err == nil && resp != nil:
		res = Classify(req, resp)
	case ctx.Err() != nil:
		res = &Result{Type: ResultDismiss}
	case err != nil:
		res = errorResult(nil, fmt.Errorf("%s: agent failed: %w", op, err))
	default:
		res = errorResult(nil, fmt.Errorf("%s: agent returned no response: %w", op, ErrNilParameter))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = res
	c.setStatus(StatusResolved)
	if res.Error != nil {
		c.logger.Warn("authorization prompt failed", "instance", req.ID(), "error", res.Error)
	} else {
		c.logger.Info("authorization prompt resolved", "instance", req.ID(), "result", res.Type)
	}
	return res, nil
}

// setStatus must be called with c.mu held.
func (c *Controller) setStatus(s Status) {
	if c.status != s {
		c.logger.Debug("status changed", "from", c.status, "to", s)
	}
	c.status = s
}

// controllerOptions is the set of available options for NewController
type controllerOptions struct {
	withLogger hclog.Logger
}

// controllerDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func controllerDefaults() controllerOptions {
	return controllerOptions{
		withLogger: hclog.NewNullLogger(),
	}
}

// getControllerOpts gets the controller defaults and applies the opt
// overrides passed in.
func getControllerOpts(opt ...Option) controllerOptions {
	opts := controllerDefaults()
	ApplyOpts(&opts, opt...)
	if opts.withLogger == nil {
		opts.withLogger = hclog.NewNullLogger()
	}
	return opts
}
