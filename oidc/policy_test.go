// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Defaults(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	p := DefaultPolicy()
	assert.Equal([]string{"openid"}, p.MinimumScopes)
	assert.Equal("hl", p.languageParam())

	assert.True(p.requiresNonce(IDTokenResponse))
	assert.True(p.requiresNonce("token id_token"))
	assert.True(p.requiresNonce("code id_token"))
	assert.False(p.requiresNonce(CodeResponse))
	assert.False(p.requiresNonce(TokenResponse))

	assert.True(p.attachSecret(TokenResponse))
	assert.True(p.attachSecret(IDTokenResponse))
	assert.False(p.attachSecret(CodeResponse))
	assert.False(p.attachSecret("code id_token"))
}

func TestPolicy_Overrides(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	always := func(ResponseType) bool { return true }
	p := &Policy{RequiresNonce: always, AttachSecret: always, LanguageParam: "ui_locales"}
	assert.True(p.requiresNonce(CodeResponse))
	assert.True(p.attachSecret(CodeResponse))
	assert.Equal("ui_locales", p.languageParam())
}

func TestAgentOptions_merge(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	defaults := AgentOptions{Width: 515, Height: 680, UseEmbeddedFlow: true}
	assert.Equal(defaults, AgentOptions{}.merge(defaults))
	assert.Equal(
		AgentOptions{Width: 100, Height: 680, UseEmbeddedFlow: true, UseProxy: true, RedirectURL: "x"},
		AgentOptions{Width: 100, UseProxy: true, RedirectURL: "x"}.merge(defaults),
	)
}
