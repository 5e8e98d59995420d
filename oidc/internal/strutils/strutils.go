// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package strutils provides string slice helpers.
package strutils

import "strings"

// RemoveDuplicatesStable removes duplicate and empty elements from a slice of
// strings, preserving order (the first occurrence wins).  Elements are
// trimmed of whitespace.  If caseInsensitive is true, elements are compared
// without regard to case.
func RemoveDuplicatesStable(items []string, caseInsensitive bool) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.TrimSpace(item)
		if key == "" {
			continue
		}
		if caseInsensitive {
			key = strings.ToLower(key)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, strings.TrimSpace(item))
	}
	return result
}
