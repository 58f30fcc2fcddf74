/*
Package handler provides HTTP handler functions for the signed-in member's profile.
*/
package handler

import (
	"net/http"
	"strings"

	"github.com/SADD1990/kkhebrah/internal/app/profile"
	"github.com/SADD1990/kkhebrah/internal/pkg/errs"
	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
	"github.com/SADD1990/kkhebrah/internal/pkg/req"
	"github.com/SADD1990/kkhebrah/internal/pkg/resp"
)

// HandleGetProfile returns the current member profile held by the session.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r, deps)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		user, ok := deps.Sessions.User(sess.ID)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": user,
		})
	}
}

// HandleProfileSuggestions asks the AI coach for improvement suggestions on
// the member's current bio. The coach never fails: an unreachable model yields
// a single notice entry instead of an error.
func HandleProfileSuggestions(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r, deps)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		user, ok := deps.Sessions.User(sess.ID)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		suggestions := deps.Gateway.ProfileSuggestions(r.Context(), user.Bio)

		resp.RespondSuccess(w, r, map[string]any{
			"suggestions": suggestions,
		})
	}
}

type AddSkillInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleAddSkill appends a new skill to the member's profile. The skill is
// acknowledged by the account backend first, then appended to the session's
// skill list; prior entries are never touched.
func HandleAddSkill(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r, deps)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input AddSkillInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		name := strings.TrimSpace(input.Name)
		description := strings.TrimSpace(input.Description)
		if name == "" || description == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrSkillIncomplete))
			return
		}

		skill := profile.Skill{
			ID:          profile.NewSkillID(),
			Name:        name,
			Description: description,
		}

		if err := deps.Auth.SaveSkill(r.Context(), skill); err != nil {
			logx.Error(err, "add_skill: account backend call failed", "session_id", sess.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// The session may have been cleared while the backend call was in
		// flight; the skill must not be applied to a dead session.
		if !deps.Sessions.AppendSkill(sess.ID, skill) {
			logx.Warn("add_skill: session gone after backend ack", "session_id", sess.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"skill": skill,
		})
	}
}
