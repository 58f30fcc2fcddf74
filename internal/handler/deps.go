package handler

import (
	"net/http"

	"github.com/SADD1990/kkhebrah/internal/app/ai"
	"github.com/SADD1990/kkhebrah/internal/app/assistant"
	"github.com/SADD1990/kkhebrah/internal/app/auth"
	"github.com/SADD1990/kkhebrah/internal/app/messaging"
	"github.com/SADD1990/kkhebrah/internal/app/profile"
	"github.com/SADD1990/kkhebrah/internal/app/session"
	"github.com/SADD1990/kkhebrah/internal/configs"
	"github.com/SADD1990/kkhebrah/internal/pkg/auth/jwt"
)

type AppDeps struct {
	Config    *configs.AppConfig
	Gateway   *ai.Gateway
	Sessions  *session.Store
	Auth      auth.Service
	Threads   *messaging.Hub
	Assistant *assistant.Registry
	Experts   *profile.Directory
}

// currentSession resolves the live session for the request, or nil when the
// request is anonymous, carries an invalid token, or references a session
// that no longer exists (logged out or lost across a restart).
func currentSession(r *http.Request, deps *AppDeps) *session.Session {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		return nil
	}

	return deps.Sessions.Get(identity.SessionID)
}
