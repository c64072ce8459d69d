package web

import (
	"net"
	"net/http"
)

// clientIP is the request's client address without the port. RemoteAddr
// is already rewritten by TrustedRealIP when the peer is a trusted proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
