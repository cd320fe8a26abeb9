package handler

import (
	"go-finance-api/service"
	"net"
	"net/http"
)

// clientIP is the peer address of the connection. Forwarding headers are not
// trusted because the value keys the login rate limiter.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func clientInfo(r *http.Request) service.ClientInfo {
	ua := r.UserAgent()
	if len(ua) > 500 {
		ua = ua[:500]
	}
	return service.ClientInfo{IP: clientIP(r), UserAgent: ua}
}
