package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIDEchoesValidHeader(t *testing.T) {
	var seen string
	handler := ClientID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(ClientIDHeader, "shopper_42")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen != "shopper_42" {
		t.Fatalf("expected client id in context, got %q", seen)
	}
	if resp.Header().Get(ClientIDHeader) != "shopper_42" {
		t.Fatalf("expected header echoed")
	}
}

func TestClientIDMintsWhenMissingOrUnsafe(t *testing.T) {
	for _, header := range []string{"", "bad:id", "has space"} {
		var seen string
		handler := ClientID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = ClientIDFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		if header != "" {
			req.Header.Set(ClientIDHeader, header)
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if seen == "" || seen == header {
			t.Fatalf("header %q: expected a minted id, got %q", header, seen)
		}
		if resp.Header().Get(ClientIDHeader) != seen {
			t.Fatalf("header %q: minted id not echoed", header)
		}
	}
}
