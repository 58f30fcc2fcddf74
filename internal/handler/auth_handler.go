/*
Package handler provides HTTP handler functions for session sign-in, sign-up and sign-out.
*/
package handler

import (
	"net/http"
	"strings"

	"github.com/SADD1990/kkhebrah/internal/app/profile"
	"github.com/SADD1990/kkhebrah/internal/pkg/auth/jwt"
	"github.com/SADD1990/kkhebrah/internal/pkg/errs"
	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
	"github.com/SADD1990/kkhebrah/internal/pkg/req"
	"github.com/SADD1990/kkhebrah/internal/pkg/resp"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin resolves the member profile for the submitted credentials,
// opens a session and issues its token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess := currentSession(r, deps); sess != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if strings.TrimSpace(input.Email) == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		user, err := deps.Auth.Login(r.Context(), input.Email, input.Password)
		if err != nil {
			logx.Error(err, "login: account backend call failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		respondWithSession(w, r, deps, user)
	}
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup fabricates a fresh member profile, opens a session and issues
// its token.
func HandleSignup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess := currentSession(r, deps); sess != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input SignupInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if strings.TrimSpace(input.Email) == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		user, err := deps.Auth.Signup(r.Context(), strings.TrimSpace(input.Name), input.Email, input.Password)
		if err != nil {
			logx.Error(err, "signup: account backend call failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		respondWithSession(w, r, deps, user)
	}
}

// HandleLogout closes the session: the expert thread is stopped first so a
// scripted reply pending at logout is discarded instead of landing in a dead
// session, then the session itself is discarded.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r, deps)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		deps.Threads.Close(sess.ID)
		deps.Sessions.Clear(sess.ID)

		resp.RespondSuccess(w, r, nil)
	}
}

// respondWithSession opens a session for the given member, signs its token and
// writes the standard sign-in response.
func respondWithSession(w http.ResponseWriter, r *http.Request, deps *AppDeps, user profile.User) {
	sess := deps.Sessions.Create(user)

	payload := &jwt.Payload{
		SessionID: sess.ID,
		Name:      user.Name,
		Avatar:    user.Avatar,
	}

	token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
	if err != nil {
		logx.Error(err, "session token generation failed", "session_id", sess.ID)
		deps.Sessions.Clear(sess.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	resp.RespondSuccess(w, r, map[string]any{
		"token": token,
		"user":  user,
	})
}
