// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package useragent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/authreq/oidc"
	"github.com/hashicorp/authreq/oidc/callback"
	"github.com/hashicorp/go-hclog"
)

// Browser is an oidc.Agent which opens the authorization URL in the system
// browser and listens for the redirect on a loopback address.
type Browser struct {
	logger          hclog.Logger
	opener          func(url string) error
	output          io.Writer
	sFn             callback.SuccessResponseFunc
	eFn             callback.ErrorResponseFunc
	shutdownTimeout time.Duration
}

// ensure that Browser implements the oidc.Agent interface
var _ oidc.Agent = (*Browser)(nil)

// NewBrowser creates a new Browser.
//
// Supported options: WithLogger, WithOpener, WithOutput, WithResponseFuncs,
// WithShutdownTimeout
func NewBrowser(opt ...Option) *Browser {
	opts := getBrowserOpts(opt...)
	return &Browser{
		logger:          opts.withLogger,
		opener:          opts.withOpener,
		output:          opts.withOutput,
		sFn:             opts.withSuccessFunc,
		eFn:             opts.withErrorFunc,
		shutdownTimeout: opts.withShutdownTimeout,
	}
}

// Open implements the oidc.Agent interface.  It listens on the redirect
// URL's loopback address, opens the authorization URL and waits for the
// first redirect, a listener failure or ctx to be done.
func (b *Browser) Open(ctx context.Context, authURL string, opts oidc.AgentOptions) (*oidc.AgentResponse, error) {
	const op = "Browser.Open"
	if authURL == "" {
		return nil, fmt.Errorf("%s: authorization URL is empty: %w", op, oidc.ErrInvalidParameter)
	}
	redirect, err := LoopbackRedirect(opts.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if opts.UseEmbeddedFlow || opts.Width != 0 || opts.Height != 0 {
		b.logger.Debug("window hints are ignored by the system browser", "width", opts.Width, "height", opts.Height, "embedded", opts.UseEmbeddedFlow)
	}

	l, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to listen on %s: %w", op, redirect.Host, err)
	}

	doneCh, handler := callback.Channel(b.sFn, b.eFn)
	mux := http.NewServeMux()
	mux.HandleFunc(redirectPath(redirect), handler)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srvCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), b.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			b.logger.Warn("unable to shut down loopback listener", "error", err)
		}
	}()

	b.logger.Info("launching browser for authorization", "listener", l.Addr().String())
	if err := b.opener(authURL); err != nil {
		b.logger.Warn("unable to launch browser", "error", err)
		fmt.Fprintf(b.output, "Unable to launch a browser: %s\nPlease visit the authorization URL manually:\n\n    %s\n\n", err, authURL)
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	case err := <-srvCh:
		return nil, fmt.Errorf("%s: loopback listener failed: %w", op, err)
	case resp := <-doneCh:
		b.logger.Debug("received authorization redirect")
		return resp, nil
	}
}

// LoopbackRedirect parses the redirect URL and verifies it's an http
// loopback URL with an explicit port.
func LoopbackRedirect(redirectURL string) (*url.URL, error) {
	const op = "useragent.LoopbackRedirect"
	if redirectURL == "" {
		return nil, fmt.Errorf("%s: redirect URL is empty: %w", op, oidc.ErrUnsupportedRedirect)
	}
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to parse redirect URL: %w: %w", op, oidc.ErrUnsupportedRedirect, err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("%s: scheme %q is not http: %w", op, u.Scheme, oidc.ErrUnsupportedRedirect)
	}
	if u.Port() == "" {
		return nil, fmt.Errorf("%s: redirect URL must have an explicit port: %w", op, oidc.ErrUnsupportedRedirect)
	}
	if !isLoopback(u.Hostname()) {
		return nil, fmt.Errorf("%s: host %q is not a loopback address: %w", op, u.Hostname(), oidc.ErrUnsupportedRedirect)
	}
	return u, nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func redirectPath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
