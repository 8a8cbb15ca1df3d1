package metadata

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"

	"waterquality/pkg/requestcontext"
)

// ClientMetadata extracts client IP address and User-Agent from the request
// and adds them to the context for use by handlers, rate limiting and logs.
// Forwarding headers are honored only when the direct peer is one of
// trustedProxies. This middleware should be applied early in the chain.
func ClientMetadata(trustedProxies []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIPFromRequest(r, trustedProxies)
			userAgent := r.Header.Get("User-Agent")

			ctx := requestcontext.WithClientMetadata(r.Context(), ip, userAgent, IsBot(userAgent))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBot reports whether a User-Agent string identifies a crawler or script.
// An empty User-Agent is treated as automated.
func IsBot(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return true
	}
	return useragent.New(userAgent).Bot()
}

// ClientIPFromRequest returns the address of the client that sent r.
//
// RemoteAddr is used unless it belongs to a trusted proxy. Behind a trusted
// proxy the X-Forwarded-For chain is walked from the right and the first hop
// that is not itself a trusted proxy wins; X-Real-IP is the fallback when the
// chain is absent. Clients can set either header, so neither is read for
// untrusted peers.
func ClientIPFromRequest(r *http.Request, trustedProxies []netip.Prefix) string {
	peer, ok := remoteIP(r.RemoteAddr)
	if !ok {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	if !trusted(peer, trustedProxies) {
		return peer.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			hop = hop.Unmap()
			if !trusted(hop, trustedProxies) {
				return hop.String()
			}
		}
	}

	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}
	return peer.String()
}

// remoteIP parses "ip:port" or a bare IP.
func remoteIP(addr string) (netip.Addr, bool) {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return ip.Unmap(), true
}

func trusted(ip netip.Addr, proxies []netip.Prefix) bool {
	for _, p := range proxies {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}
