// Package network holds the HTTP client shared by plain (non fingerprinted)
// downloads such as script installs and trailer thumbnails.
package network

import (
	"net/http"
	"time"
)

// Client is shared so connections to the same host are reused.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}
