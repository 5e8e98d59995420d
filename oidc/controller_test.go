// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPlatform = Platform{OS: Android, AppID: "com.example.app"}

func testController(t *testing.T, a Agent, opt ...Option) *Controller {
	t.Helper()
	b, err := NewBuilder(&Policy{
		Name:          "test",
		MinimumScopes: []string{"openid"},
		Window:        AgentOptions{Width: 515, Height: 680},
	})
	require.NoError(t, err)
	c, err := NewController(b, testDiscovery(), testPlatform, a, opt...)
	require.NoError(t, err)
	return c
}

func TestNewController(t *testing.T) {
	t.Parallel()
	b, err := NewBuilder(DefaultPolicy())
	require.NoError(t, err)
	agent := NewTestAgent(t, nil)
	tests := []struct {
		name      string
		b         *Builder
		d         *Discovery
		a         Agent
		wantIsErr error
	}{
		{name: "valid", b: b, d: testDiscovery(), a: agent},
		{name: "nil-builder", d: testDiscovery(), a: agent, wantIsErr: ErrNilParameter},
		{name: "nil-agent", b: b, d: testDiscovery(), wantIsErr: ErrNilParameter},
		{name: "nil-discovery", b: b, a: agent, wantIsErr: ErrNilParameter},
		{name: "invalid-discovery", b: b, d: &Discovery{}, a: agent, wantIsErr: ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			c, err := NewController(tt.b, tt.d, testPlatform, tt.a)
			if tt.wantIsErr != nil {
				require.Error(err)
				assert.Nil(c)
				assert.Truef(errors.Is(err, tt.wantIsErr), "wanted \"%s\" but got \"%s\"", tt.wantIsErr, err)
				return
			}
			require.NoError(err)
			assert.Equal(StatusUnloaded, c.Status())
			assert.Nil(c.Request())
			assert.Nil(c.Result())
		})
	}
}

func TestController_Lifecycle(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()
	agent := NewTestAgent(t, nil)
	c := testController(t, agent)

	_, err := c.Prompt(ctx, AgentOptions{})
	assert.ErrorIs(err, ErrInvalidState)
	_, err = c.Reload(ctx)
	assert.ErrorIs(err, ErrInvalidState)

	cfg := &Config{AndroidClientID: "c1"}
	r1, err := c.Load(ctx, cfg)
	require.NoError(err)
	assert.Equal(StatusLoaded, c.Status())
	assert.Same(r1, c.Request())

	res, err := c.Prompt(ctx, AgentOptions{Height: 100})
	require.NoError(err)
	assert.Equal(StatusResolved, c.Status())
	assert.True(res.Succeeded())
	assert.Equal("test-code", res.Code)
	assert.Same(res, c.Result())
	require.Len(agent.Opened(), 1)
	assert.Equal(r1.AuthURL(), agent.Opened()[0])
	assert.Equal(AgentOptions{
		Width:       515,
		Height:      100,
		RedirectURL: "com.example.app:/oauthredirect",
	}, agent.Options()[0])

	// a resolved request can't be prompted again
	_, err = c.Prompt(ctx, AgentOptions{})
	assert.ErrorIs(err, ErrInvalidState)

	r2, err := c.Reload(ctx)
	require.NoError(err)
	assert.Equal(StatusLoaded, c.Status())
	assert.Nil(c.Result())
	assert.Equal(r1.ID(), r2.ID())
	assert.Equal(r1.PKCEVerifier(), r2.PKCEVerifier())
	assert.NotEqual(r1.State(), r2.State())

	// mutating the caller's config doesn't affect the controller
	cfg.AndroidClientID = "changed"
	assert.Equal("c1", c.Request().ClientID())
}

func TestController_Load(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	t.Run("same-config-same-instance", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := testController(t, NewTestAgent(t, nil))
		cfg := &Config{ClientID: "c", ResponseType: IDTokenResponse}
		r1, err := c.Load(ctx, cfg)
		require.NoError(err)
		r2, err := c.Load(ctx, cfg)
		require.NoError(err)
		assert.Equal(r1.ID(), r2.ID())
		assert.Equal(r1.Nonce(), r2.Nonce())
		assert.NotEqual(r1.State(), r2.State())
	})
	t.Run("new-config-new-instance", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := testController(t, NewTestAgent(t, nil))
		r1, err := c.Load(ctx, &Config{ClientID: "c", ResponseType: IDTokenResponse})
		require.NoError(err)
		r2, err := c.Load(ctx, &Config{ClientID: "c", ResponseType: IDTokenResponse, LoginHint: "bob"})
		require.NoError(err)
		assert.NotEqual(r1.ID(), r2.ID())
		assert.NotEqual(r1.Nonce(), r2.Nonce())
	})
	t.Run("missing-client-id", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := testController(t, NewTestAgent(t, nil))
		_, err := c.Load(ctx, &Config{ClientID: "c"})
		require.NoError(err)

		r, err := c.Load(ctx, &Config{IOSClientID: "ios"})
		require.Error(err)
		assert.Nil(r)
		var missing *MissingClientIDError
		require.True(errors.As(err, &missing))
		assert.Equal(AndroidSlot, missing.Slot)
		assert.Equal(StatusUnloaded, c.Status())
		assert.Nil(c.Request())
	})
	t.Run("nil-config", func(t *testing.T) {
		assert := assert.New(t)
		c := testController(t, NewTestAgent(t, nil))
		_, err := c.Load(ctx, nil)
		assert.ErrorIs(err, ErrNilParameter)
		_, err = c.Update(ctx, nil)
		assert.ErrorIs(err, ErrNilParameter)
	})
	t.Run("concurrent-load", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		started := make(chan struct{})
		unblock := make(chan struct{})
		var once sync.Once
		gen := HexGeneratorFunc(func(ctx context.Context, n int) (string, error) {
			once.Do(func() { close(started) })
			<-unblock
			return (&CryptoHex{}).GenerateHex(ctx, n)
		})
		b, err := NewBuilder(DefaultPolicy(), WithHexGenerator(gen))
		require.NoError(err)
		c, err := NewController(b, testDiscovery(), testPlatform, NewTestAgent(t, nil))
		require.NoError(err)

		done := make(chan error, 1)
		go func() {
			_, err := c.Load(ctx, &Config{ClientID: "c"})
			done <- err
		}()
		<-started
		assert.Equal(StatusLoading, c.Status())
		_, err = c.Load(ctx, &Config{ClientID: "c"})
		assert.ErrorIs(err, ErrLoadInProgress)
		close(unblock)
		require.NoError(<-done)
		assert.Equal(StatusLoaded, c.Status())
	})
}

func TestController_Update(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()
	var buf strings.Builder
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Info})
	c := testController(t, NewTestAgent(t, nil), WithLogger(logger))

	bad := &Config{WebClientID: "web"}
	_, err := c.Update(ctx, bad)
	require.ErrorIs(err, ErrMissingClientID)
	_, err = c.Update(ctx, bad.Clone())
	require.ErrorIs(err, ErrMissingClientID)
	assert.Equal(1, strings.Count(buf.String(), "unable to load authorization request"))
	assert.Equal(StatusUnloaded, c.Status())

	good := &Config{AndroidClientID: "c1"}
	r1, err := c.Update(ctx, good)
	require.NoError(err)
	r2, err := c.Update(ctx, good)
	require.NoError(err)
	assert.Same(r1, r2)
	assert.Equal(StatusLoaded, c.Status())

	r3, err := c.Update(ctx, &Config{AndroidClientID: "c2"})
	require.NoError(err)
	assert.NotEqual(r1.ID(), r3.ID())
	assert.Equal("c2", r3.ClientID())
}

func TestController_Update_EmptyCollections(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()
	c := testController(t, NewTestAgent(t, nil))

	r1, err := c.Update(ctx, &Config{ClientID: "c", ResponseType: IDTokenResponse})
	require.NoError(err)
	r2, err := c.Update(ctx, &Config{
		ClientID:     "c",
		ResponseType: IDTokenResponse,
		Scopes:       []string{},
		ExtraParams:  map[string]string{},
	})
	require.NoError(err)
	assert.Same(r1, r2)
	assert.Equal(r1.Nonce(), r2.Nonce())
}

func TestController_Prompt_Proxy(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()
	agent := NewTestAgent(t, nil)
	b, err := NewBuilder(DefaultPolicy())
	require.NoError(err)
	p := Platform{OS: Android, UseProxy: true, AppID: "com.example.app", ProxyRedirectURL: "https://proxy.example.com/cb"}
	c, err := NewController(b, testDiscovery(), p, agent)
	require.NoError(err)

	_, err = c.Load(ctx, &Config{ProxyClientID: "proxy"})
	require.NoError(err)
	res, err := c.Prompt(ctx, AgentOptions{})
	require.NoError(err)
	assert.True(res.Succeeded())
	require.Len(agent.Options(), 1)
	assert.True(agent.Options()[0].UseProxy)
	assert.Equal("https://proxy.example.com/cb", agent.Options()[0].RedirectURL)
}

func TestController_Prompt(t *testing.T) {
	t.Parallel()
	cfg := &Config{AndroidClientID: "c1"}
	t.Run("duplicate-prompt", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		ctx := context.Background()
		agent := NewTestAgent(t, nil)
		agent.Hold()
		c := testController(t, agent)
		_, err := c.Load(ctx, cfg)
		require.NoError(err)

		done := make(chan *Result, 1)
		go func() {
			res, _ := c.Prompt(ctx, AgentOptions{})
			done <- res
		}()
		<-agent.Started()
		assert.Equal(StatusPrompting, c.Status())

		_, err = c.Prompt(ctx, AgentOptions{})
		assert.ErrorIs(err, ErrPromptInProgress)
		_, err = c.Load(ctx, cfg)
		assert.ErrorIs(err, ErrPromptInProgress)
		_, err = c.Reload(ctx)
		assert.ErrorIs(err, ErrPromptInProgress)

		agent.Release()
		res := <-done
		assert.True(res.Succeeded())
		assert.Len(agent.Opened(), 1)
	})
	t.Run("dismissed", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		agent := NewTestAgent(t, nil)
		agent.Hold()
		c := testController(t, agent)
		_, err := c.Load(context.Background(), cfg)
		require.NoError(err)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		res, err := c.Prompt(ctx, AgentOptions{})
		require.NoError(err)
		assert.Equal(ResultDismiss, res.Type)
		assert.Equal(StatusResolved, c.Status())
	})
	t.Run("cancelled-by-user", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		agent := NewTestAgent(t, func(*url.URL) (*AgentResponse, error) {
			return &AgentResponse{Type: ResultCancel}, nil
		})
		c := testController(t, agent)
		_, err := c.Load(context.Background(), cfg)
		require.NoError(err)
		res, err := c.Prompt(context.Background(), AgentOptions{})
		require.NoError(err)
		assert.Equal(ResultCancel, res.Type)
		assert.NoError(res.Error)
	})
	t.Run("agent-failure", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		agent := NewTestAgent(t, func(*url.URL) (*AgentResponse, error) {
			return nil, errors.New("browser unavailable")
		})
		c := testController(t, agent)
		_, err := c.Load(context.Background(), cfg)
		require.NoError(err)
		res, err := c.Prompt(context.Background(), AgentOptions{})
		require.NoError(err)
		assert.Equal(ResultError, res.Type)
		assert.ErrorContains(res.Error, "browser unavailable")
		assert.Equal(StatusResolved, c.Status())
	})
	t.Run("forged-state", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		agent := NewTestAgent(t, func(*url.URL) (*AgentResponse, error) {
			return &AgentResponse{Type: ResultSuccess, Params: url.Values{"code": {"abc"}, "state": {"forged"}}}, nil
		})
		c := testController(t, agent)
		_, err := c.Load(context.Background(), cfg)
		require.NoError(err)
		res, err := c.Prompt(context.Background(), AgentOptions{})
		require.NoError(err)
		assert.Equal(ResultError, res.Type)
		assert.ErrorIs(res.Error, ErrResponseStateInvalid)
	})
}
