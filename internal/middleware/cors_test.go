package middleware

import (
	"net/http"
	"testing"

	"github.com/valyala/fasthttp"
)

func newCORSHandler(called *bool) fasthttp.RequestHandler {
	return CORS([]string{"http://localhost:8000"})(func(ctx *fasthttp.RequestCtx) {
		*called = true
		ctx.SetStatusCode(http.StatusOK)
	})
}

func TestCORSPreflight(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		status int
		allow  string
	}{
		{name: "allowed origin", origin: "http://localhost:8000", status: http.StatusOK, allow: "http://localhost:8000"},
		{name: "foreign origin", origin: "http://evil.example", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			ctx := &fasthttp.RequestCtx{}
			ctx.Request.Header.SetMethod(http.MethodOptions)
			ctx.Request.Header.Set("Origin", tt.origin)
			ctx.Request.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			ctx.Request.Header.Set("Access-Control-Request-Headers", "authorization, content-type")

			newCORSHandler(&called)(ctx)

			if called {
				t.Fatal("preflight must not reach the route")
			}
			if ctx.Response.StatusCode() != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, ctx.Response.StatusCode())
			}
			if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")); got != tt.allow {
				t.Fatalf("unexpected allow origin %q", got)
			}
			if tt.allow != "" && string(ctx.Response.Header.Peek("Access-Control-Allow-Headers")) != "authorization, content-type" {
				t.Fatalf("requested headers not echoed: %q", ctx.Response.Header.Peek("Access-Control-Allow-Headers"))
			}
		})
	}
}

func TestCORSSimpleRequest(t *testing.T) {
	for _, origin := range []string{"", "http://localhost:8000", "http://evil.example"} {
		called := false
		ctx := &fasthttp.RequestCtx{}
		ctx.Request.Header.SetMethod(http.MethodGet)
		if origin != "" {
			ctx.Request.Header.Set("Origin", origin)
		}

		newCORSHandler(&called)(ctx)

		if !called {
			t.Fatalf("origin %q: request must reach the route", origin)
		}
		allow := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin"))
		want := ""
		if origin == "http://localhost:8000" {
			want = origin
		}
		if allow != want {
			t.Fatalf("origin %q: expected allow origin %q, got %q", origin, want, allow)
		}
	}
}
