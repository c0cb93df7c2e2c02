// Package validation provides field predicates used to accept launch requests.
package validation

import (
	"net/url"
	"regexp"
	"strings"
)

var walletPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidWallet reports whether s is a 0x-prefixed 20-byte hex address.
// No EIP-55 checksum verification is performed.
func IsValidWallet(s string) bool {
	return walletPattern.MatchString(s)
}

// ImageRules configures which image URLs are acceptable.
type ImageRules struct {
	Hosts      []string `yaml:"hosts"`
	Extensions []string `yaml:"extensions"`
}

// DefaultImageRules returns the known image hosts and file extensions.
func DefaultImageRules() ImageRules {
	return ImageRules{
		Hosts: []string{
			"iili.io",
			"i.imgur.com",
			"arweave.net",
			"ipfs.io",
			"cloudflare-ipfs.com",
		},
		Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"},
	}
}

// IsValidImageURL reports whether s looks like a direct link to an image.
// It is a heuristic filter, not a content-type check.
func (r ImageRules) IsValidImageURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range r.Hosts {
		if h != "" && strings.Contains(host, strings.ToLower(h)) {
			return true
		}
	}

	path := strings.ToLower(u.Path)
	for _, ext := range r.Extensions {
		if ext != "" && strings.HasSuffix(path, strings.ToLower(ext)) {
			return true
		}
	}

	return strings.HasPrefix(s, "ipfs://")
}
