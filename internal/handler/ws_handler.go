/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
authenticating the session from the token query parameter, upgrading the HTTP connection
to WebSocket, and initiating the client lifecycle on the session's thread feed.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/SADD1990/kkhebrah/internal/app/messaging"
	"github.com/SADD1990/kkhebrah/internal/pkg/auth/jwt"
	"github.com/SADD1990/kkhebrah/internal/pkg/errs"
	"github.com/SADD1990/kkhebrah/internal/pkg/limiter"
	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
	"github.com/SADD1990/kkhebrah/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// The token travels as a query parameter because browser WebSocket clients cannot set
// an Authorization header.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			logx.Warn("WebSocket request rejected: Missing token query parameter")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		payload, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket request rejected: Invalid token", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		sess := deps.Sessions.Get(payload.SessionID)
		if sess == nil {
			logx.Info("WebSocket connection rejected: Session not found.", "session_id", payload.SessionID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		thread := deps.Threads.Thread(sess.ID)

		logx.Info("Attempting to upgrade connection", "session_id", sess.ID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := messaging.NewClient(thread, conn)

		go client.WritePump()

		logx.Info("WebSocket connection established and client subscribed", "session_id", sess.ID)

		client.ReadPump()
	}
}
