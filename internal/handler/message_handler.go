/*
Package handler provides HTTP handler functions for the expert conversation thread.
*/
package handler

import (
	"net/http"
	"strings"

	"github.com/SADD1990/kkhebrah/internal/app/messaging"
	"github.com/SADD1990/kkhebrah/internal/pkg/errs"
	"github.com/SADD1990/kkhebrah/internal/pkg/req"
	"github.com/SADD1990/kkhebrah/internal/pkg/resp"
)

// HandleListMessages returns the session's thread transcript, creating the
// thread with its scripted opening exchange on first access.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r, deps)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		thread := deps.Threads.Thread(sess.ID)

		resp.RespondSuccess(w, r, map[string]any{
			"messages": thread.Messages(),
		})
	}
}

type SendMessageInput struct {
	Text string `json:"text"`
}

// HandleSendMessage runs the message through moderation, appends it to the
// thread and schedules the simulated expert reply. Moderation fails open: the
// send succeeds even when the classifier is unreachable, carrying the safe
// verdict.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r, deps)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		text := strings.TrimSpace(input.Text)
		if text == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageEmpty))
			return
		}

		if len(text) > messaging.MaxContentBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentTooLong))
			return
		}

		verdict := deps.Gateway.ClassifyMessage(r.Context(), text)
		msg := messaging.NewUserMessage(text, verdict)

		thread := deps.Threads.Thread(sess.ID)
		if !thread.Post(msg) {
			resp.RespondError(w, r, errs.NewError(errs.ErrThreadUnavailable))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message": msg,
		})
	}
}
