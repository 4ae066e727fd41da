package mw

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/MrSnakeDoc/bookshelf/internal/logger"
)

// RestrictTo answers 403 to clients outside the given IPs/CIDRs.
// An empty or unparsable list lets everything through.
// trustProxy reads the client address from proxy headers (cloudflared, nginx).
func RestrictTo(cidrs []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	allowed := parsePrefixes(cidrs, log)
	if len(allowed) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	log.Debug("access restricted",
		logger.Int("rules", len(allowed)),
		logger.Bool("trust_proxy", trustProxy),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, ok := clientAddr(r, trustProxy)
			if !ok || !contains(allowed, addr) {
				log.Debug("access denied",
					logger.String("path", r.URL.Path),
					logger.String("client", addr.String()),
					logger.String("remote_addr", r.RemoteAddr),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"success":false,"error":{"code":"forbidden","message":"client address not allowed"}}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parsePrefixes(list []string, log logger.Logger) []netip.Prefix {
	var out []netip.Prefix
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(s); err == nil {
			a = a.Unmap()
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		log.Warn("ignoring invalid address rule", logger.String("rule", s))
	}
	return out
}

func contains(prefixes []netip.Prefix, addr netip.Addr) bool {
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientAddr prefers CF-Connecting-IP, then the left-most X-Forwarded-For,
// then X-Real-IP when trustProxy is set, and RemoteAddr otherwise.
func clientAddr(r *http.Request, trustProxy bool) (netip.Addr, bool) {
	if trustProxy {
		xff, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		for _, v := range []string{r.Header.Get("CF-Connecting-IP"), xff, r.Header.Get("X-Real-IP")} {
			if a, ok := parseAddr(v); ok {
				return a, true
			}
		}
	}
	return parseAddr(r.RemoteAddr)
}

// parseAddr accepts "ip", "ip:port" and "[v6]:port"
func parseAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}, false
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return a.Unmap(), true
}
