package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedRealIP rewrites RemoteAddr from X-Real-IP or X-Forwarded-For, but
// only when the connection comes from one of the trusted proxy networks.
// Other clients keep their connection address, so a forged header cannot
// dodge the per-IP rate limit.
func TrustedRealIP(trusted []string) func(http.Handler) http.Handler {
	prefixes := parsePrefixes(trusted)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(prefixes) > 0 && isTrusted(peerAddr(r.RemoteAddr), prefixes) {
				if ip, ok := forwardedIP(r.Header); ok {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// parsePrefixes accepts CIDRs and bare addresses; invalid entries are
// logged and skipped.
func parsePrefixes(entries []string) []netip.Prefix {
	var out []netip.Prefix
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		slog.Warn("realip: invalid trusted proxy, skipping", "entry", e)
	}
	return out
}

// forwardedIP prefers X-Real-IP, then the first X-Forwarded-For hop.
func forwardedIP(h http.Header) (netip.Addr, bool) {
	if v := strings.TrimSpace(h.Get("X-Real-IP")); v != "" {
		a, err := netip.ParseAddr(v)
		return a, err == nil
	}
	if v := h.Get("X-Forwarded-For"); v != "" {
		first, _, _ := strings.Cut(v, ",")
		a, err := netip.ParseAddr(strings.TrimSpace(first))
		return a, err == nil
	}
	return netip.Addr{}, false
}

// peerAddr parses host:port or a bare address.
func peerAddr(remote string) netip.Addr {
	host := remote
	if h, _, err := net.SplitHostPort(remote); err == nil {
		host = h
	}
	a, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return a.Unmap()
}

func isTrusted(a netip.Addr, prefixes []netip.Prefix) bool {
	if !a.IsValid() {
		return false
	}
	for _, p := range prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}
