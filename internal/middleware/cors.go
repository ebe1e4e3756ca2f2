package middleware

import (
	"net/http"

	"github.com/valyala/fasthttp"
)

const corsMethods = "GET, POST, PATCH, DELETE, OPTIONS"

// CORS lets the listed browser origins call the API with credentials.
// Preflights from other origins are rejected; plain requests from them pass
// through without CORS headers and the browser blocks the response.
func CORS(origins []string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[origin] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			origin := string(ctx.Request.Header.Peek("Origin"))
			if origin == "" {
				next(ctx)
				return
			}
			_, ok := allowed[origin]

			preflight := ctx.IsOptions() && len(ctx.Request.Header.Peek("Access-Control-Request-Method")) > 0
			if preflight {
				if !ok {
					ctx.SetStatusCode(http.StatusBadRequest)
					ctx.SetBodyString("Disallowed CORS origin")
					return
				}
				setCORSHeaders(ctx, origin)
				ctx.Response.Header.Set("Access-Control-Allow-Methods", corsMethods)
				if requested := ctx.Request.Header.Peek("Access-Control-Request-Headers"); len(requested) > 0 {
					ctx.Response.Header.SetBytesV("Access-Control-Allow-Headers", requested)
				}
				ctx.Response.Header.Set("Access-Control-Max-Age", "600")
				ctx.SetStatusCode(http.StatusOK)
				return
			}

			if ok {
				setCORSHeaders(ctx, origin)
			}
			next(ctx)
		}
	}
}

func setCORSHeaders(ctx *fasthttp.RequestCtx, origin string) {
	ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
	ctx.Response.Header.Set("Access-Control-Allow-Credentials", "true")
	ctx.Response.Header.Add("Vary", "Origin")
}
