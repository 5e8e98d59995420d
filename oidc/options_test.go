// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func Test_WithLogger(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	l := hclog.New(&hclog.LoggerOptions{Name: "test"})

	b := getBuilderOpts(WithLogger(l))
	assert.Equal(l, b.withLogger)
	c := getControllerOpts(WithLogger(l))
	assert.Equal(l, c.withLogger)
	d := getDiscoveryOpts(WithLogger(l))
	assert.Equal(l, d.withLogger)

	// nil loggers fall back to the null logger
	assert.NotNil(getBuilderOpts(WithLogger(nil)).withLogger)
	assert.NotNil(getControllerOpts(WithLogger(nil)).withLogger)
}

func Test_WithNow(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	now := time.Now().Add(-time.Hour)
	opts := getBuilderOpts(WithNow(func() time.Time { return now }))
	assert.Equal(now, opts.withNowFunc())
	assert.NotNil(getBuilderOpts(WithNow(nil)).withNowFunc)
}

func Test_ApplyOpts(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	opts := builderDefaults()
	ApplyOpts(&opts, nil, WithProviderCA("ignored"))
	assert.Equal(builderDefaults().withHexGenerator, opts.withHexGenerator)

	d := getDiscoveryOpts(WithProviderCA("ca"), WithNow(time.Now))
	assert.Equal("ca", d.withProviderCA)
}
