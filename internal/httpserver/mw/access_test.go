package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookshelf/internal/logger"
)

func TestClientAddr(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr only", remote: "10.0.0.5:4242", want: "10.0.0.5"},
		{name: "headers ignored without trust", remote: "10.0.0.5:4242",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4"}, want: "10.0.0.5"},
		{name: "cloudflare header first", remote: "127.0.0.1:1", trustProxy: true,
			headers: map[string]string{"CF-Connecting-IP": "9.9.9.9", "X-Forwarded-For": "1.2.3.4"}, want: "9.9.9.9"},
		{name: "left-most forwarded for", remote: "127.0.0.1:1", trustProxy: true,
			headers: map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8"}, want: "1.2.3.4"},
		{name: "real ip fallback", remote: "127.0.0.1:1", trustProxy: true,
			headers: map[string]string{"X-Real-IP": "8.8.8.8"}, want: "8.8.8.8"},
		{name: "garbage header falls through", remote: "127.0.0.1:1", trustProxy: true,
			headers: map[string]string{"X-Forwarded-For": "unknown"}, want: "127.0.0.1"},
		{name: "v4 mapped v6", remote: "[::ffff:10.0.0.7]:80", want: "10.0.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			got, ok := clientAddr(r, tt.trustProxy)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRestrictTo(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RestrictTo([]string{"10.0.0.0/8", " 192.168.1.10 ", "", "not-an-ip"}, false, logger.NewNop())(ok)

	cases := map[string]int{
		"10.1.2.3:1":     http.StatusOK,
		"192.168.1.10:1": http.StatusOK,
		"192.168.1.11:1": http.StatusForbidden,
		"garbage":        http.StatusForbidden,
	}
	for remote, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		r.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, want, rec.Code, remote)
		if want == http.StatusForbidden {
			assert.JSONEq(t, `{"success":false,"error":{"code":"forbidden","message":"client address not allowed"}}`, rec.Body.String())
		}
	}
}

func TestRestrictToWithoutRulesPassesThrough(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	for _, rules := range [][]string{nil, {"", "nope"}} {
		r := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		RestrictTo(rules, true, logger.NewNop())(ok).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
}
