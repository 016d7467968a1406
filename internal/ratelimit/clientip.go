package ratelimit

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RemoteIP returns the address a request is counted against.
//
// Forwarding headers are read only when trustProxy is set. In that case the
// rightmost public X-Forwarded-For hop wins, since earlier hops are supplied
// by the client; if every hop is internal the last one is used. X-Real-IP is
// the fallback when X-Forwarded-For is absent.
func RemoteIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			for i := len(hops) - 1; i >= 0; i-- {
				hop := strings.TrimSpace(hops[i])
				if hop != "" && !isInternal(hop) {
					return hop
				}
			}
			return strings.TrimSpace(hops[len(hops)-1])
		}
		if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
			return real
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// isInternal reports whether ip is loopback, link-local or in a private range.
// IPv4-mapped IPv6 addresses are judged by their IPv4 form.
func isInternal(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast()
}
