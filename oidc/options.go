// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// Option defines a common functional options type which can be used in a
// variadic parameter pattern.
type Option func(interface{})

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		if o == nil { // ignore any nil Options
			continue
		}
		o(opts)
	}
}

// WithLogger provides an optional logger for: Builder, Controller and
// NewDiscovery.  Secrets are never logged.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *builderOptions:
			v.withLogger = l
		case *controllerOptions:
			v.withLogger = l
		case *discoveryOptions:
			v.withLogger = l
		}
	}
}

// WithNow provides an optional func for determining the current time.  It's
// used by: Builder (the request's creation time).
func WithNow(now func() time.Time) Option {
	return func(o interface{}) {
		if o, ok := o.(*builderOptions); ok {
			o.withNowFunc = now
		}
	}
}
