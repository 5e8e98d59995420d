// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yhat/scrape"
	"golang.org/x/net/html"
)

// testPage is the parsed title and message of a page written by
// DefaultSuccess or DefaultError.
type testPage struct {
	title   string
	message string
}

// testParsePage parses the body of a callback response.  This is helpful
// internally, but intentionally not exported.
func testParsePage(t *testing.T, resp *http.Response) testPage {
	t.Helper()
	require := require.New(t)
	defer resp.Body.Close()
	root, err := html.Parse(resp.Body)
	require.NoError(err)
	title, ok := scrape.Find(root, scrape.ById("title"))
	require.Truef(ok, "page is missing a title")
	msg, ok := scrape.Find(root, scrape.ById("message"))
	require.Truef(ok, "page is missing a message")
	return testPage{
		title:   scrape.Text(title),
		message: scrape.Text(msg),
	}
}
