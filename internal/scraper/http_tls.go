package scraper

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/internal/cache"
	"github.com/preshow-cli/preshow/where"
	utls "github.com/refraction-networking/utls"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/net/http2"
)

const httpTimeout = 30 * time.Second

// responses caches successful http_tls.request bodies that asked for it.
var responses = sync.OnceValue(func() *cache.Cache {
	return cache.New(filepath.Join(where.Cache(), "http"), 6*time.Hour)
})

// registerTLSClient exposes a Chrome fingerprinted HTTP client to scripts:
//
//	http_tls.get(url [, headers])                          -> body
//	http_tls.request{method, url, headers, body, cache}    -> {status, body}
func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(httpTLSGet))
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))
	L.SetGlobal("http_tls", mod)
}

func headersOf(tbl *lua.LTable) map[string]string {
	headers := make(map[string]string)
	if tbl != nil {
		tbl.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}
	return headers
}

func httpTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	headers := headersOf(L.OptTable(2, nil))

	body, status, err := doTLSRequest(L.Context(), http.MethodGet, url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get %s: %s", url, err)
		return 0
	}
	if status >= 400 {
		L.RaiseError("http_tls.get %s: status %d", url, status)
		return 0
	}

	L.Push(lua.LString(body))
	return 1
}

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	field := func(name, def string) string {
		if v := opts.RawGetString(name); v != lua.LNil {
			return v.String()
		}
		return def
	}

	method := strings.ToUpper(field("method", http.MethodGet))
	url := field("url", "")
	body := field("body", "")
	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	var headers map[string]string
	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		headers = headersOf(tbl)
	}

	push := func(r cachedResponse) int {
		result := L.NewTable()
		L.SetField(result, "status", lua.LNumber(r.Status))
		L.SetField(result, "body", lua.LString(r.Body))
		L.Push(result)
		return 1
	}

	useCache := lua.LVAsBool(opts.RawGetString("cache"))
	key := cache.Key(method, url, body)
	if useCache {
		var hit cachedResponse
		if responses().Read(key, &hit) {
			return push(hit)
		}
	}

	respBody, status, err := doTLSRequest(L.Context(), method, url, headers, body)
	if err != nil {
		L.RaiseError("http_tls.request %s: %s", url, err)
		return 0
	}

	r := cachedResponse{Status: status, Body: respBody}
	if useCache && status == http.StatusOK {
		_ = responses().Write(key, r)
	}
	return push(r)
}

var (
	h2Transport = sync.OnceValue(func() *http2.Transport {
		return &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	h1Transport = &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLS(ctx, network, addr, []string{"http/1.1"})
		},
	}
)

// doTLSRequest tries HTTP/2 first and falls back to HTTP/1.1 when the
// server does not negotiate it.
func doTLSRequest(ctx context.Context, method, url string, headers map[string]string, body string) (string, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	newRequest := func() (*http.Request, error) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", constant.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}

	req, err := newRequest()
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := (&http.Client{Timeout: httpTimeout, Transport: h2Transport()}).Do(req)
	if err != nil {
		req, _ = newRequest()
		resp, err = (&http.Client{Timeout: httpTimeout, Transport: h1Transport}).Do(req)
		if err != nil {
			return "", 0, fmt.Errorf("request failed: %w", err)
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return string(data), resp.StatusCode, nil
}

// dialTLS opens a connection presenting Chrome's client hello. nextProtos
// overrides the advertised protocols.
func dialTLS(ctx context.Context, network, addr string, nextProtos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := (&net.Dialer{Timeout: httpTimeout}).DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: nextProtos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}
	return tlsConn, nil
}
