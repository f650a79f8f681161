package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// TrustedProxies lists the peers allowed to report the client address via
// X-Forwarded-For. A nil matcher trusts nobody.
type TrustedProxies struct {
	ips  map[string]struct{}
	nets []*net.IPNet
}

func NewTrustedProxies(entries []string) *TrustedProxies {
	ips := make(map[string]struct{})
	var nets []*net.IPNet

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			_, network, err := net.ParseCIDR(entry)
			if err != nil {
				log.Warn().Err(err).Str("entry", entry).Msg("invalid trusted proxy CIDR")
				continue
			}
			nets = append(nets, network)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			log.Warn().Str("entry", entry).Msg("invalid trusted proxy IP")
			continue
		}
		ips[ip.String()] = struct{}{}
	}

	if len(ips) == 0 && len(nets) == 0 {
		return nil
	}
	return &TrustedProxies{ips: ips, nets: nets}
}

func (p *TrustedProxies) IsTrusted(ip net.IP) bool {
	if p == nil || ip == nil {
		return false
	}
	if _, ok := p.ips[ip.String()]; ok {
		return true
	}
	for _, network := range p.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP resolves the caller address. Forwarding headers are honoured only
// when the socket peer is a trusted proxy, and the chain is walked from the
// right so entries a client prepends are never picked over the proxy's own.
func (p *TrustedProxies) ClientIP(r *http.Request) net.IP {
	remote := parseHostIP(r.RemoteAddr)
	if remote == nil || !p.IsTrusted(remote) {
		return remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip := parseHostIP(hops[i])
		if ip == nil {
			continue
		}
		if !p.IsTrusted(ip) {
			return ip
		}
		remote = ip
	}
	return remote
}

// RealIP rewrites r.RemoteAddr to the resolved client address so the rate
// limiter and audit log key on a value the client cannot choose.
func (p *TrustedProxies) RealIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := p.ClientIP(r); ip != nil {
			r.RemoteAddr = ip.String()
		}
		next.ServeHTTP(w, r)
	})
}

func parseHostIP(value string) net.IP {
	host := strings.Trim(strings.TrimSpace(value), "\"")
	if host == "" {
		return nil
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if zone := strings.Index(host, "%"); zone != -1 {
		host = host[:zone]
	}
	return net.ParseIP(host)
}
