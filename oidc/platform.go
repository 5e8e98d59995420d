// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"fmt"
	"runtime"
)

// OSFamily identifies the host operating system family.
type OSFamily string

const (
	IOS     OSFamily = "ios"
	Android OSFamily = "android"
	Web     OSFamily = "web"
	Desktop OSFamily = "desktop"
)

// Slot is the name of a client id slot in the Config.
type Slot string

const (
	ProxySlot   Slot = "proxyClientId"
	IOSSlot     Slot = "iosClientId"
	AndroidSlot Slot = "androidClientId"
	WebSlot     Slot = "webClientId"
	NativeSlot  Slot = "nativeClientId"
)

// NativeRedirectPath is appended to the application id to build the default
// native redirect URL: <appID>:/oauthredirect
const NativeRedirectPath = ":/oauthredirect"

// Platform is a read-only snapshot of the platform's capabilities.  It's
// resolved once, at startup, and passed into Resolve.
type Platform struct {
	// OS is the host operating system family.
	OS OSFamily

	// UseProxy means the redirect goes through an indirection/proxy service.
	UseProxy bool

	// AppID is the application's stable identifier, used for the native
	// redirect scheme.
	AppID string

	// ProxyRedirectURL is the redirect URL used when UseProxy is true.
	ProxyRedirectURL string

	// WebOrigin is the redirect URL used in a browser.
	WebOrigin string
}

// Slot returns the client id slot used by the platform.
func (p Platform) Slot() Slot {
	if p.UseProxy {
		return ProxySlot
	}
	switch p.OS {
	case IOS:
		return IOSSlot
	case Android:
		return AndroidSlot
	case Desktop:
		return NativeSlot
	default:
		return WebSlot
	}
}

// ClientID returns the config's client id for the slot.
func (s Slot) ClientID(c *Config) string {
	switch s {
	case ProxySlot:
		return c.ProxyClientID
	case IOSSlot:
		return c.IOSClientID
	case AndroidSlot:
		return c.AndroidClientID
	case NativeSlot:
		return c.NativeClientID
	case WebSlot:
		return c.WebClientID
	default:
		return ""
	}
}

// DefaultRedirectURL returns the redirect URL used when the Config doesn't
// specify one.
func (p Platform) DefaultRedirectURL() (string, error) {
	const op = "Platform.DefaultRedirectURL"
	switch {
	case p.UseProxy:
		if p.ProxyRedirectURL == "" {
			return "", fmt.Errorf("%s: proxy redirect URL is empty: %w", op, ErrMissingRedirectURL)
		}
		return p.ProxyRedirectURL, nil
	case p.OS == Web:
		if p.WebOrigin == "" {
			return "", fmt.Errorf("%s: web origin is empty: %w", op, ErrMissingRedirectURL)
		}
		return p.WebOrigin, nil
	default:
		if p.AppID == "" {
			return "", fmt.Errorf("%s: application id is empty: %w", op, ErrMissingRedirectURL)
		}
		return p.AppID + NativeRedirectPath, nil
	}
}

// DetectPlatform returns a Desktop platform for the running process with the
// given application id.  Callers on mobile or web hosts supply their own
// Platform.
func DetectPlatform(appID string) Platform {
	p := Platform{OS: Desktop, AppID: appID}
	switch runtime.GOOS {
	case "ios":
		p.OS = IOS
	case "android":
		p.OS = Android
	case "js", "wasip1":
		p.OS = Web
	}
	return p
}
