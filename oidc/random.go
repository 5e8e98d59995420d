// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/hashicorp/go-uuid"
)

// DefaultNonceLength is the number of random bytes in a generated nonce.
const DefaultNonceLength = 16

// DefaultStateLength is the number of random bytes in a generated CSRF state.
const DefaultStateLength = 16

// HexGenerator is a cryptographically secure source of random hex strings.
// Implementations must be safe for concurrent use.
type HexGenerator interface {
	// GenerateHex returns byteLen random bytes, hex encoded.
	GenerateHex(ctx context.Context, byteLen int) (string, error)
}

// HexGeneratorFunc adapts a func to a HexGenerator.
type HexGeneratorFunc func(ctx context.Context, byteLen int) (string, error)

// GenerateHex implements the HexGenerator interface.
func (f HexGeneratorFunc) GenerateHex(ctx context.Context, byteLen int) (string, error) {
	return f(ctx, byteLen)
}

// CryptoHex is a HexGenerator which reads from crypto/rand.
type CryptoHex struct {
	// Reader defaults to crypto/rand.Reader when nil.
	Reader io.Reader
}

// ensure that CryptoHex implements the HexGenerator interface
var _ HexGenerator = (*CryptoHex)(nil)

// GenerateHex implements the HexGenerator interface.
func (g *CryptoHex) GenerateHex(ctx context.Context, byteLen int) (string, error) {
	const op = "CryptoHex.GenerateHex"
	if byteLen <= 0 {
		return "", fmt.Errorf("%s: byte length must be greater than zero: %w", op, ErrInvalidParameter)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	r := g.Reader
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, byteLen)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("%s: unable to read random bytes: %w", op, err)
	}
	return hex.EncodeToString(b), nil
}

// NewID generates a random UUID used to identify one logical request
// instance.
func NewID() (string, error) {
	const op = "oidc.NewID"
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate id: %w: %w", op, ErrIdGeneratorFailed, err)
	}
	return id, nil
}
