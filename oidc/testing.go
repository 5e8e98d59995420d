// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/require"
)

// TestGenerateKeys will generate a test ECDSA P-256 pub/priv key pair
func TestGenerateKeys(t *testing.T) (pub, priv string) {
	t.Helper()
	require := require.New(t)
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(err)

	{
		derBytes, err := x509.MarshalECPrivateKey(privateKey)
		require.NoError(err)
		priv = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: derBytes}))
	}
	{
		derBytes, err := x509.MarshalPKIXPublicKey(privateKey.Public())
		require.NoError(err)
		pub = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: derBytes}))
	}
	return pub, priv
}

// TestSignJWT will bundle the provided claims into a test signed JWT. The provided key
// must be ECDSA.
func TestSignJWT(t *testing.T, ecdsaPrivKeyPEM string, claims jwt.Claims, privateClaims interface{}) string {
	t.Helper()
	require := require.New(t)
	block, _ := pem.Decode([]byte(ecdsaPrivKeyPEM))
	require.NotNil(block, "unable to decode private key PEM")
	key, err := x509.ParseECPrivateKey(block.Bytes)
	require.NoError(err)

	sig, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.ES256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(err)

	raw, err := jwt.Signed(sig).
		Claims(claims).
		Claims(privateClaims).
		Serialize()
	require.NoError(err)
	return raw
}

// TestIDToken returns a signed id_token carrying the nonce, as an
// authorization endpoint would return it for an id_token response type.  An
// empty nonce omits the claim.
func TestIDToken(t *testing.T, nonce string) IDToken {
	t.Helper()
	_, priv := TestGenerateKeys(t)
	now := time.Now()
	claims := jwt.Claims{
		Issuer:   "https://example.com/",
		Subject:  "alice@example.com",
		Audience: []string{"test-client-id"},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	privateClaims := map[string]interface{}{}
	if nonce != "" {
		privateClaims["nonce"] = nonce
	}
	return IDToken(TestSignJWT(t, priv, claims, privateClaims))
}

// TestGenerateCA will generate a test x509 CA cert encoded in a PEM format.
func TestGenerateCA(t *testing.T, hosts []string) string {
	t.Helper()
	require := require.New(t)

	priv, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(err)

	notBefore := time.Now()
	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	require.NoError(err)

	template := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               pkix.Name{Organization: []string{"Acme Co"}},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(2 * time.Minute),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	require.NoError(err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: derBytes}))
}

// TestHexGenerator is a deterministic HexGenerator.  It returns a counter,
// zero padded to the requested length, or Err when set.
type TestHexGenerator struct {
	mu    sync.Mutex
	count int

	// Err is returned by GenerateHex when set.
	Err error
}

// ensure that TestHexGenerator implements the HexGenerator interface
var _ HexGenerator = (*TestHexGenerator)(nil)

// GenerateHex implements the HexGenerator interface.
func (g *TestHexGenerator) GenerateHex(_ context.Context, byteLen int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return "", g.Err
	}
	g.count++
	return fmt.Sprintf("%0*x", byteLen*2, g.count), nil
}

// Calls returns the number of values generated.
func (g *TestHexGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// TestReplyFunc produces a TestAgent's response for an authorization URL.
type TestReplyFunc func(authURL *url.URL) (*AgentResponse, error)

// TestEchoReply returns a TestReplyFunc which responds with params plus the
// state sent in the authorization URL.
func TestEchoReply(params url.Values) TestReplyFunc {
	return func(authURL *url.URL) (*AgentResponse, error) {
		p := url.Values{}
		for k, v := range params {
			p[k] = append([]string(nil), v...)
		}
		p.Set("state", authURL.Query().Get("state"))
		return &AgentResponse{Type: ResultSuccess, Params: p}, nil
	}
}

// TestAgent is an in-memory Agent.  It records every authorization URL it's
// asked to open and replies using its TestReplyFunc.  When held, Open blocks
// until Release is called or its ctx is done.
type TestAgent struct {
	t     *testing.T
	reply TestReplyFunc

	mu      sync.Mutex
	opened  []string
	options []AgentOptions
	held    chan struct{}
	release func()
	started chan struct{}
}

// ensure that TestAgent implements the Agent interface
var _ Agent = (*TestAgent)(nil)

// NewTestAgent creates a TestAgent.  A nil reply echoes the state with a
// "test-code" authorization code.
func NewTestAgent(t *testing.T, reply TestReplyFunc) *TestAgent {
	t.Helper()
	if reply == nil {
		reply = TestEchoReply(url.Values{"code": {"test-code"}})
	}
	return &TestAgent{
		t:       t,
		reply:   reply,
		started: make(chan struct{}, 10),
	}
}

// Hold makes subsequent calls to Open block until Release.
func (a *TestAgent) Hold() {
	a.mu.Lock()
	defer a.mu.Unlock()
	held := make(chan struct{})
	a.held = held
	a.release = sync.OnceFunc(func() { close(held) })
}

// Release unblocks held calls to Open.
func (a *TestAgent) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.release != nil {
		a.release()
	}
}

// Started receives once for every call to Open.
func (a *TestAgent) Started() <-chan struct{} {
	return a.started
}

// Opened returns the authorization URLs the agent was asked to open.
func (a *TestAgent) Opened() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.opened...)
}

// Options returns the AgentOptions passed to each call to Open.
func (a *TestAgent) Options() []AgentOptions {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AgentOptions(nil), a.options...)
}

// Open implements the Agent interface.
func (a *TestAgent) Open(ctx context.Context, authURL string, opts AgentOptions) (*AgentResponse, error) {
	a.mu.Lock()
	a.opened = append(a.opened, authURL)
	a.options = append(a.options, opts)
	held := a.held
	a.mu.Unlock()

	select {
	case a.started <- struct{}{}:
	default:
	}
	if held != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-held:
		}
	}
	u, err := url.Parse(authURL)
	require.NoError(a.t, err)
	return a.reply(u)
}

// TestDiscovery is a local TLS server which serves an OIDC discovery document.
type TestDiscovery struct {
	srv    *httptest.Server
	caCert string
}

// StartTestDiscovery starts a TestDiscovery which is stopped via t.Cleanup.
func StartTestDiscovery(t *testing.T) *TestDiscovery {
	t.Helper()
	d := &TestDiscovery{}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		issuer := d.srv.URL
		doc := map[string]interface{}{
			"issuer":                                issuer,
			"authorization_endpoint":                issuer + "/authorize",
			"token_endpoint":                        issuer + "/token",
			"revocation_endpoint":                   issuer + "/revoke",
			"userinfo_endpoint":                     issuer + "/userinfo",
			"jwks_uri":                              issuer + "/.well-known/jwks.json",
			"response_types_supported":              []string{"code", "id_token", "token id_token"},
			"subject_types_supported":               []string{"public"},
			"id_token_signing_alg_values_supported": []string{"ES256"},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(doc))
	})
	d.srv = httptest.NewTLSServer(mux)
	t.Cleanup(d.srv.Close)
	d.caCert = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: d.srv.Certificate().Raw}))
	return d
}

// Issuer returns the issuer URL.
func (d *TestDiscovery) Issuer() string { return d.srv.URL }

// CACert returns the server's certificate in PEM format, suitable for
// WithProviderCA.
func (d *TestDiscovery) CACert() string { return d.caCert }
