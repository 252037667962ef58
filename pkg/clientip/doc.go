// Package clientip resolves the client address of a request behind proxies.
//
// GetIP checks, in order: CF-Connecting-IP, DO-Connecting-IP, the leftmost
// X-Forwarded-For entry, X-Real-IP, and finally RemoteAddr. Values that do
// not parse as an IP, and 0.0.0.0, are skipped. When nothing valid is found
// the raw RemoteAddr is returned.
//
// The logging middleware records the result as client_ip.
package clientip
