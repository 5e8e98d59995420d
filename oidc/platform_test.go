// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatform_Slot(t *testing.T) {
	t.Parallel()
	tests := []struct {
		p    Platform
		want Slot
	}{
		{p: Platform{OS: IOS}, want: IOSSlot},
		{p: Platform{OS: Android}, want: AndroidSlot},
		{p: Platform{OS: Web}, want: WebSlot},
		{p: Platform{OS: Desktop}, want: NativeSlot},
		{p: Platform{}, want: WebSlot},
		{p: Platform{OS: Desktop, UseProxy: true}, want: ProxySlot},
	}
	for _, tt := range tests {
		t.Run(string(tt.want)+"/"+string(tt.p.OS), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Slot())
		})
	}
}

func TestSlot_ClientID(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	c := &Config{
		ProxyClientID:   "proxy",
		IOSClientID:     "ios",
		AndroidClientID: "android",
		WebClientID:     "web",
		NativeClientID:  "native",
	}
	assert.Equal("proxy", ProxySlot.ClientID(c))
	assert.Equal("ios", IOSSlot.ClientID(c))
	assert.Equal("android", AndroidSlot.ClientID(c))
	assert.Equal("web", WebSlot.ClientID(c))
	assert.Equal("native", NativeSlot.ClientID(c))
	assert.Empty(Slot("unknown").ClientID(c))
}

func TestPlatform_DefaultRedirectURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		p         Platform
		want      string
		wantIsErr error
	}{
		{name: "native", p: Platform{OS: Android, AppID: "com.example.app"}, want: "com.example.app:/oauthredirect"},
		{name: "desktop", p: Platform{OS: Desktop, AppID: "com.example.app"}, want: "com.example.app:/oauthredirect"},
		{name: "web", p: Platform{OS: Web, WebOrigin: "https://app.example.com"}, want: "https://app.example.com"},
		{name: "proxy", p: Platform{OS: IOS, UseProxy: true, AppID: "x", ProxyRedirectURL: "https://proxy"}, want: "https://proxy"},
		{name: "native-no-app-id", p: Platform{OS: IOS}, wantIsErr: ErrMissingRedirectURL},
		{name: "web-no-origin", p: Platform{OS: Web}, wantIsErr: ErrMissingRedirectURL},
		{name: "proxy-no-url", p: Platform{OS: Web, UseProxy: true, WebOrigin: "https://app"}, wantIsErr: ErrMissingRedirectURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := tt.p.DefaultRedirectURL()
			if tt.wantIsErr != nil {
				require.Error(err)
				assert.Truef(errors.Is(err, tt.wantIsErr), "wanted \"%s\" but got \"%s\"", tt.wantIsErr, err)
				return
			}
			require.NoError(err)
			assert.Equal(tt.want, got)
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	p := DetectPlatform("com.example.app")
	assert.Equal("com.example.app", p.AppID)
	assert.False(p.UseProxy)
	assert.NotEmpty(p.OS)
}
