package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseOwnerRepo parses a repository reference into owner and repo
// components. It accepts both the short "owner/repo" form and full
// GitHub URLs.
func ParseOwnerRepo(ref string) (owner, repo string, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", fmt.Errorf("empty repository reference")
	}

	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", "", err
		}
		ref = strings.Trim(u.Path, "/")
	}

	parts := strings.Split(strings.Trim(ref, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository reference: expected owner/repo")
	}

	return parts[0], parts[1], nil
}

// IsValidOwnerRepo reports whether ref parses to an owner/repo pair.
func IsValidOwnerRepo(ref string) bool {
	_, _, err := ParseOwnerRepo(ref)
	return err == nil
}
