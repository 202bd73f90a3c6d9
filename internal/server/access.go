package server

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/go-faster/errors"
)

// IPRestriction は許可されたネットワークからの接続だけを通す
type IPRestriction struct {
	prefixes []netip.Prefix
}

// NewIPRestriction は CIDR または単一IPの一覧から制限を作る
// 空なら全て許可する
func NewIPRestriction(entries []string) (*IPRestriction, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if p, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, errors.Errorf("invalid CIDR or IP: %s", entry)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return &IPRestriction{prefixes: prefixes}, nil
}

// Allows は addr が許可されていれば true を返す
func (ir *IPRestriction) Allows(addr netip.Addr) bool {
	if len(ir.prefixes) == 0 {
		return true
	}
	addr = addr.Unmap()
	for _, p := range ir.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Middleware は許可されていない接続元に 403 を返す
func (ir *IPRestriction) Middleware(next http.Handler) http.Handler {
	if len(ir.prefixes) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr, ok := clientAddr(r)
		if !ok || !ir.Allows(addr) {
			writeError(w, http.StatusForbidden, "forbidden", "access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientAddr は X-Forwarded-For の先頭、X-Real-IP、RemoteAddr の順で接続元を決める
func clientAddr(r *http.Request) (netip.Addr, bool) {
	candidates := []string{r.Header.Get("X-Real-IP")}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidates = append([]string{first}, candidates...)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		candidates = append(candidates, host)
	}
	for _, c := range candidates {
		if addr, err := netip.ParseAddr(strings.TrimSpace(c)); err == nil {
			return addr.Unmap(), true
		}
	}
	return netip.Addr{}, false
}

func clientIPString(r *http.Request) string {
	if addr, ok := clientAddr(r); ok {
		return addr.String()
	}
	return ""
}
