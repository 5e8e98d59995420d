// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package authreq_test

import (
	"context"
	"fmt"

	"github.com/hashicorp/authreq/oidc"
	"github.com/hashicorp/authreq/oidc/callback"
	"github.com/hashicorp/authreq/oidc/useragent"
	"github.com/hashicorp/authreq/providers/google"
)

func Example_google() {
	ctx := context.Background()

	// The platform is resolved once, at startup.
	platform := oidc.Platform{OS: oidc.Android, AppID: "com.example.app"}

	// An agent which delivers the redirect.  Mobile hosts typically receive
	// the redirect as a deep link and turn it into a response with
	// callback.Response(...).
	agent := oidc.AgentFunc(func(ctx context.Context, authURL string, opts oidc.AgentOptions) (*oidc.AgentResponse, error) {
		// launch authURL, then wait for the deep link to opts.RedirectURL
		var deepLink string
		return callback.Response(deepLink)
	})

	c, err := google.NewController(platform, agent)
	if err != nil {
		// handle error
	}

	// Load (or Update on every configuration change) builds the request.
	req, err := c.Load(ctx, &oidc.Config{
		AndroidClientID: "your_android_client_id",
		ResponseType:    oidc.IDTokenResponse,
		Scopes:          []string{"https://www.googleapis.com/auth/calendar.readonly"},
	})
	if err != nil {
		// handle error, for example an *oidc.MissingClientIDError
	}
	fmt.Println(req.AuthURL())

	// Prompt the user and validate the response against the request.
	res, err := c.Prompt(ctx, oidc.AgentOptions{})
	if err != nil {
		// handle error
	}
	switch res.Type {
	case oidc.ResultSuccess:
		var claims map[string]interface{}
		if err := res.IDToken.Claims(&claims); err != nil {
			// handle error
		}
	case oidc.ResultError:
		// res.Error is an *oidc.AuthError or a validation error
	case oidc.ResultCancel, oidc.ResultDismiss:
		// the user didn't finish; call c.Reload(ctx) to try again
	}
}

func Example_desktop() {
	ctx := context.Background()

	d, err := oidc.NewDiscovery(ctx, "https://your-issuer.example.com")
	if err != nil {
		// handle error
	}
	b, err := oidc.NewBuilder(oidc.DefaultPolicy())
	if err != nil {
		// handle error
	}

	// The browser agent listens for the redirect on a loopback address.
	agent := useragent.NewBrowser()
	c, err := oidc.NewController(b, d, oidc.DetectPlatform("com.example.app"), agent)
	if err != nil {
		// handle error
	}
	req, err := c.Load(ctx, &oidc.Config{
		ClientID:    "your_client_id",
		RedirectURL: "http://127.0.0.1:8080/callback",
	})
	if err != nil {
		// handle error
	}
	res, err := c.Prompt(ctx, oidc.AgentOptions{})
	if err != nil {
		// handle error
	}
	if res.Succeeded() {
		// exchange res.Code with req.VerifierOption() via golang.org/x/oauth2
		// using d.Endpoint()
		_ = req.VerifierOption()
	}
}
