// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/authreq/oidc"
	"golang.org/x/text/language"
)

const (
	responseModeParam    = "response_mode"
	formPostResponseMode = "form_post"
)

// cliEnv is the configuration read from the environment.  Flags override
// these values.
type cliEnv struct {
	ClientID     string        `env:"AUTHREQ_CLIENT_ID"`
	ClientSecret string        `env:"AUTHREQ_CLIENT_SECRET"`
	Issuer       string        `env:"AUTHREQ_ISSUER"`
	Port         int           `env:"AUTHREQ_PORT"          envDefault:"8080"`
	Scopes       []string      `env:"AUTHREQ_SCOPES"        envSeparator:","`
	ResponseType string        `env:"AUTHREQ_RESPONSE_TYPE" envDefault:"code"`
	LoginHint    string        `env:"AUTHREQ_LOGIN_HINT"`
	Language     string        `env:"AUTHREQ_LANGUAGE"`
	Timeout      time.Duration `env:"AUTHREQ_TIMEOUT"       envDefault:"2m"`
	LogLevel     string        `env:"AUTHREQ_LOG_LEVEL"     envDefault:"info"`
}

func loadEnv() (cliEnv, error) {
	const op = "loadEnv"
	var cfg cliEnv
	if err := env.Parse(&cfg); err != nil {
		return cliEnv{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// redirectURL is the loopback redirect the useragent.Browser listens on.
func (e cliEnv) redirectURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/callback", e.Port)
}

// config converts the environment (with flag overrides applied) into an
// oidc.Config for a native client.
func (e cliEnv) config(selectAccount bool) (*oidc.Config, error) {
	const op = "cliEnv.config"
	c := &oidc.Config{
		ClientID:      e.ClientID,
		ClientSecret:  oidc.ClientSecret(e.ClientSecret),
		ResponseType:  oidc.ResponseType(strings.ReplaceAll(e.ResponseType, ",", " ")),
		RedirectURL:   e.redirectURL(),
		LoginHint:     e.LoginHint,
		SelectAccount: selectAccount,
	}
	// The loopback listener never sees a URL fragment, so implicit responses
	// are posted back instead.
	if c.ResponseType != "" && c.ResponseType.IsImplicit() {
		c.ExtraParams = map[string]string{responseModeParam: formPostResponseMode}
	}
	for _, s := range e.Scopes {
		if s = strings.TrimSpace(s); s != "" {
			c.Scopes = append(c.Scopes, s)
		}
	}
	if e.Language != "" {
		tag, err := language.Parse(e.Language)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid language %q: %w", op, e.Language, err)
		}
		c.Language = tag
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
