// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Command cli runs an authorization request against Google or any OIDC
// provider, using the system browser and a loopback redirect, and prints the
// result as JSON.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hashicorp/authreq/oidc"
	"github.com/hashicorp/authreq/oidc/useragent"
	"github.com/hashicorp/authreq/providers/google"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	showSecrets   bool
	selectAccount bool
	responseType  string
	scopes        []string
	loginHint     string
	language      string
	port          int
	issuer        string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "authreq",
		Short:        "Run an OAuth 2.0 / OIDC authorization request",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&f.showSecrets, "show-secrets", false, "print codes and tokens instead of redacting them")
	root.PersistentFlags().BoolVar(&f.selectAccount, "select-account", false, "ask the provider to show its account chooser")
	root.PersistentFlags().StringVar(&f.responseType, "response-type", "", "response type, e.g. code or \"token id_token\"; implicit types use response_mode=form_post (default $AUTHREQ_RESPONSE_TYPE)")
	root.PersistentFlags().StringSliceVar(&f.scopes, "scopes", nil, "comma separated list of additional scopes (default $AUTHREQ_SCOPES)")
	root.PersistentFlags().StringVar(&f.loginHint, "login-hint", "", "login hint (default $AUTHREQ_LOGIN_HINT)")
	root.PersistentFlags().StringVar(&f.language, "language", "", "BCP 47 language tag (default $AUTHREQ_LANGUAGE)")
	root.PersistentFlags().IntVar(&f.port, "port", 0, "loopback redirect port (default $AUTHREQ_PORT)")

	googleCmd := &cobra.Command{
		Use:   "google",
		Short: "Sign in with Google",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f, func(context.Context, hclog.Logger, cliEnv) (*oidc.Policy, *oidc.Discovery, error) {
				return google.Policy(), google.Discovery(), nil
			})
		},
	}

	oidcCmd := &cobra.Command{
		Use:   "oidc",
		Short: "Sign in with any OIDC provider, via discovery",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f, func(ctx context.Context, logger hclog.Logger, e cliEnv) (*oidc.Policy, *oidc.Discovery, error) {
				issuer := f.issuer
				if issuer == "" {
					issuer = e.Issuer
				}
				d, err := oidc.NewDiscovery(ctx, issuer, oidc.WithLogger(logger))
				if err != nil {
					return nil, nil, err
				}
				return oidc.DefaultPolicy(), d, nil
			})
		},
	}
	oidcCmd.Flags().StringVar(&f.issuer, "issuer", "", "issuer URL (default $AUTHREQ_ISSUER)")

	root.AddCommand(googleCmd, oidcCmd)
	return root
}

type providerFunc func(ctx context.Context, logger hclog.Logger, e cliEnv) (*oidc.Policy, *oidc.Discovery, error)

func run(cmd *cobra.Command, f *flags, provider providerFunc) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	f.apply(&e)

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "authreq",
		Level:  hclog.LevelFromString(e.LogLevel),
		Output: cmd.ErrOrStderr(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	policy, d, err := provider(ctx, logger, e)
	if err != nil {
		return err
	}
	cfg, err := e.config(f.selectAccount)
	if err != nil {
		return err
	}

	b, err := oidc.NewBuilder(policy, oidc.WithLogger(logger))
	if err != nil {
		return err
	}
	agent := useragent.NewBrowser(useragent.WithLogger(logger), useragent.WithOutput(cmd.ErrOrStderr()))
	c, err := oidc.NewController(b, d, oidc.DetectPlatform("authreq-cli"), agent, oidc.WithLogger(logger))
	if err != nil {
		return err
	}
	req, err := c.Load(ctx, cfg)
	if err != nil {
		return err
	}
	res, err := c.Prompt(ctx, oidc.AgentOptions{})
	if err != nil {
		return err
	}
	if err := newOutput(req, res, f.showSecrets).write(cmd.OutOrStdout()); err != nil {
		return err
	}
	if !res.Succeeded() {
		return fmt.Errorf("authorization %s", res.Type)
	}
	return nil
}

// apply overrides the environment with flags which were set.
func (f *flags) apply(e *cliEnv) {
	if f.responseType != "" {
		e.ResponseType = f.responseType
	}
	if len(f.scopes) > 0 {
		e.Scopes = f.scopes
	}
	if f.loginHint != "" {
		e.LoginHint = f.loginHint
	}
	if f.language != "" {
		e.Language = f.language
	}
	if f.port != 0 {
		e.Port = f.port
	}
}
