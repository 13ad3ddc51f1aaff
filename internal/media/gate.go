// Package media gates, fetches and analyzes chat attachments.
package media

import (
	"net/url"
	"strings"
)

// Gate is the hostname allow-list checked before any outbound media fetch.
type Gate struct {
	hosts map[string]struct{}
}

func NewGate(hosts []string) *Gate {
	allowed := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		normalized := strings.ToLower(strings.TrimSpace(host))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}
	return &Gate{hosts: allowed}
}

// IsAllowedURL reports whether raw is an http(s) URL whose hostname is on
// the allow-list. Malformed input is rejected.
func (g *Gate) IsAllowedURL(raw string) bool {
	if g == nil || len(g.hosts) == 0 {
		return false
	}
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return false
	}
	if parsed.User != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	_, ok := g.hosts[host]
	return ok
}
