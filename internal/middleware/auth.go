package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/planner/api/transport"
	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/pkg/httpcontext"
	appLogger "github.com/fastygo/planner/pkg/logger"
)

// Authenticator resolves an Authorization header to a user id.
type Authenticator interface {
	AuthenticateRequest(ctx context.Context, header string) (string, error)
}

// BearerAuth rejects requests without a live bearer session and records the
// caller for downstream handlers.
func BearerAuth(gate Authenticator, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			stdCtx, cancel := adapter.Attach(ctx)
			userID, err := gate.AuthenticateRequest(stdCtx, string(ctx.Request.Header.Peek("Authorization")))
			cancel()

			if err != nil {
				if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					reject(ctx, http.StatusUnauthorized, domain.ErrCodeUnauthorized, err.Error())
					return
				}
				appLogger.WithRequestID(stdCtx, logger).Error("session lookup failed", zap.Error(err))
				reject(ctx, http.StatusInternalServerError, domain.ErrCodeInternal, "internal error")
				return
			}

			httpcontext.SetUserID(ctx, userID)
			next(ctx)
		}
	}
}

func reject(ctx *fasthttp.RequestCtx, status int, code domain.ErrorCode, message string) {
	body, _ := json.Marshal(transport.NewError(string(code), message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
