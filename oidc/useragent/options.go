// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package useragent

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/authreq/oidc/callback"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/browser"
)

// Option defines a common functional options type which can be used in a
// variadic parameter pattern.
type Option func(interface{})

// applyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func applyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		if o == nil { // ignore any nil Options
			continue
		}
		o(opts)
	}
}

// browserOptions is the set of available options for NewBrowser
type browserOptions struct {
	withLogger          hclog.Logger
	withOpener          func(url string) error
	withOutput          io.Writer
	withSuccessFunc     callback.SuccessResponseFunc
	withErrorFunc       callback.ErrorResponseFunc
	withShutdownTimeout time.Duration
}

// browserDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func browserDefaults() browserOptions {
	return browserOptions{
		withLogger:          hclog.NewNullLogger(),
		withOpener:          browser.OpenURL,
		withOutput:          os.Stderr,
		withShutdownTimeout: 5 * time.Second,
	}
}

// getBrowserOpts gets the browser defaults and applies the opt overrides
// passed in.
func getBrowserOpts(opt ...Option) browserOptions {
	opts := browserDefaults()
	applyOpts(&opts, opt...)
	if opts.withLogger == nil {
		opts.withLogger = hclog.NewNullLogger()
	}
	if opts.withOpener == nil {
		opts.withOpener = browser.OpenURL
	}
	if opts.withOutput == nil {
		opts.withOutput = io.Discard
	}
	return opts
}

// WithLogger provides an optional logger.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*browserOptions); ok {
			o.withLogger = l
		}
	}
}

// WithOpener provides an optional func which opens the authorization URL.
// The default launches the system browser.
func WithOpener(fn func(url string) error) Option {
	return func(o interface{}) {
		if o, ok := o.(*browserOptions); ok {
			o.withOpener = fn
		}
	}
}

// WithOutput provides an optional writer for instructions to the user, such
// as the authorization URL when the browser can't be launched.  Defaults to
// os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(o interface{}) {
		if o, ok := o.(*browserOptions); ok {
			o.withOutput = w
		}
	}
}

// WithResponseFuncs provides optional funcs which write the page shown in
// the browser after the redirect.
func WithResponseFuncs(s callback.SuccessResponseFunc, e callback.ErrorResponseFunc) Option {
	return func(o interface{}) {
		if o, ok := o.(*browserOptions); ok {
			o.withSuccessFunc = s
			o.withErrorFunc = e
		}
	}
}

// WithShutdownTimeout provides an optional timeout for shutting down the
// loopback listener.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*browserOptions); ok {
			o.withShutdownTimeout = d
		}
	}
}
