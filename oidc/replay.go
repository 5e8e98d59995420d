// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"fmt"
)

// NonceParam is the authorization request parameter carrying the nonce.
const NonceParam = "nonce"

// ReplayState holds the replay protection secrets of one logical request
// instance.  It's a value: each build receives the prior state and returns
// the next one, and a secret is set at most once per instance.
type ReplayState struct {
	// InstanceID identifies the logical request instance.
	InstanceID string

	// Nonce is set once an id_token flow needs one.
	Nonce string

	// Verifier is set once PKCE is used.
	Verifier CodeVerifier
}

// NewReplayState returns the state for a new request instance.
func NewReplayState() (ReplayState, error) {
	const op = "oidc.NewReplayState"
	id, err := NewID()
	if err != nil {
		return ReplayState{}, fmt.Errorf("%s: %w", op, err)
	}
	return ReplayState{InstanceID: id}, nil
}

// ReplayManager generates the per request replay protection secrets using
// its HexGenerator and PKCEGenerator.
type ReplayManager struct {
	hex  HexGenerator
	pkce PKCEGenerator
}

// NewReplayManager creates a ReplayManager.  Nil generators are replaced
// with CryptoHex and S256Generator.
func NewReplayManager(hex HexGenerator, pkce PKCEGenerator) *ReplayManager {
	if hex == nil {
		hex = &CryptoHex{}
	}
	if pkce == nil {
		pkce = S256Generator{}
	}
	return &ReplayManager{hex: hex, pkce: pkce}
}

// EnsureNonce returns the nonce for the instance.  A nonce supplied by the
// caller in extra wins, then a nonce already generated for the instance.
// Only otherwise is a new one generated and cached in s.
func (m *ReplayManager) EnsureNonce(ctx context.Context, s *ReplayState, extra map[string]string) (string, error) {
	const op = "ReplayManager.EnsureNonce"
	if s == nil {
		return "", fmt.Errorf("%s: replay state is nil: %w", op, ErrNilParameter)
	}
	if n := extra[NonceParam]; n != "" {
		return n, nil
	}
	if s.Nonce != "" {
		return s.Nonce, nil
	}
	n, err := m.hex.GenerateHex(ctx, DefaultNonceLength)
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate nonce: %w", op, err)
	}
	if n == "" {
		return "", fmt.Errorf("%s: generated nonce is empty: %w", op, ErrIdGeneratorFailed)
	}
	s.Nonce = n
	return n, nil
}

// EnsurePKCE returns the instance's code verifier, generating it only once.
func (m *ReplayManager) EnsurePKCE(ctx context.Context, s *ReplayState) (CodeVerifier, error) {
	const op = "ReplayManager.EnsurePKCE"
	if s == nil {
		return CodeVerifier{}, fmt.Errorf("%s: replay state is nil: %w", op, ErrNilParameter)
	}
	if !s.Verifier.IsZero() {
		return s.Verifier, nil
	}
	v, err := m.pkce.GeneratePKCE(ctx)
	if err != nil {
		return CodeVerifier{}, fmt.Errorf("%s: unable to generate code verifier: %w", op, err)
	}
	s.Verifier = v
	return v, nil
}

// NewState returns a fresh CSRF state.  States are single use, so they're
// never cached.
func (m *ReplayManager) NewState(ctx context.Context) (string, error) {
	const op = "ReplayManager.NewState"
	st, err := m.hex.GenerateHex(ctx, DefaultStateLength)
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate state: %w", op, err)
	}
	if st == "" {
		return "", fmt.Errorf("%s: generated state is empty: %w", op, ErrIdGeneratorFailed)
	}
	return st, nil
}
