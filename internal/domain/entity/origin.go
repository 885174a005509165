package entity

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Origin is a script realm's security origin.
type Origin struct {
	Scheme string
	Host   string
	Port   int
	// Opaque origins (sandboxed frames, data: URLs) match only the "*" rule.
	Opaque bool
}

func (o Origin) String() string {
	if o.Opaque {
		return "null"
	}
	if o.Port == 0 || o.Port == DefaultPort(o.Scheme) {
		return o.Scheme + "://" + o.Host
	}
	return o.Scheme + "://" + net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// DefaultPort returns the implicit port for a scheme, or 0.
func DefaultPort(scheme string) int {
	switch scheme {
	case "http", "ws":
		return 80
	case "https", "wss":
		return 443
	default:
		return 0
	}
}

// ParseOrigin parses an origin or any absolute URL into its origin.
func ParseOrigin(raw string) Origin {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return Origin{Opaque: true}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Origin{Opaque: true}
	}
	scheme := strings.ToLower(u.Scheme)
	port := DefaultPort(scheme)
	if p := u.Port(); p != "" {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return Origin{Opaque: true}
		}
		port = n
	}
	return Origin{Scheme: scheme, Host: strings.ToLower(u.Hostname()), Port: port}
}

// ResolveTargetOrigin turns a postMessage target into an absolute origin string,
// falling back to the "*" wildcard when it cannot be parsed.
func ResolveTargetOrigin(target string) string {
	if strings.TrimSpace(target) == "*" {
		return "*"
	}
	o := ParseOrigin(target)
	if o.Opaque {
		return "*"
	}
	return o.String()
}

// OriginRule is one entry of a listener's origin allow-list.
type OriginRule struct {
	raw       string
	any       bool
	scheme    string
	host      string
	subdomain bool
	port      int
}

// ParseOriginRule parses "*", "scheme://host[:port]" or "scheme://*.host[:port]".
// Rules carry no path, query or fragment.
func ParseOriginRule(raw string) (OriginRule, error) {
	raw = strings.TrimSpace(raw)
	if raw == "*" {
		return OriginRule{raw: raw, any: true}, nil
	}
	schemeSep := strings.Index(raw, "://")
	if schemeSep <= 0 {
		return OriginRule{}, fmt.Errorf("origin rule %q: missing scheme", raw)
	}
	scheme := strings.ToLower(raw[:schemeSep])
	rest := raw[schemeSep+3:]
	if rest == "" || strings.ContainsAny(rest, "/?#") {
		return OriginRule{}, fmt.Errorf("origin rule %q: must be scheme://host[:port]", raw)
	}

	rule := OriginRule{raw: raw, scheme: scheme, port: DefaultPort(scheme)}
	host := rest
	if h, p, err := net.SplitHostPort(rest); err == nil {
		n, convErr := strconv.Atoi(p)
		if convErr != nil || n <= 0 || n > 65535 {
			return OriginRule{}, fmt.Errorf("origin rule %q: invalid port", raw)
		}
		host = h
		rule.port = n
	}
	if strings.HasPrefix(host, "*.") {
		rule.subdomain = true
		host = host[2:]
	}
	if host == "" || strings.Contains(host, "*") {
		return OriginRule{}, fmt.Errorf("origin rule %q: invalid host", raw)
	}
	rule.host = strings.ToLower(host)
	return rule, nil
}

// ParseOriginRules parses a list, failing on the first invalid rule.
func ParseOriginRules(raw []string) ([]OriginRule, error) {
	rules := make([]OriginRule, 0, len(raw))
	for _, r := range raw {
		rule, err := ParseOriginRule(r)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r OriginRule) String() string {
	return r.raw
}

// Matches reports whether origin is allowed by the rule.
func (r OriginRule) Matches(o Origin) bool {
	if r.any {
		return true
	}
	if o.Opaque || o.Scheme != r.scheme || o.Port != r.port {
		return false
	}
	if r.subdomain {
		return strings.HasSuffix(o.Host, "."+r.host)
	}
	return o.Host == r.host
}

// AllowedBy reports whether any rule allows origin.
func AllowedBy(rules []OriginRule, o Origin) bool {
	for _, r := range rules {
		if r.Matches(o) {
			return true
		}
	}
	return false
}
