/*
Package handler provides the HTTP handler function for the platform assistant widget.
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

type AssistantChatInput struct {
	ConversationID string `json:"conversationId,omitempty"`
	Message        string `json:"message"`
}

// HandleAssistantChat routes one widget message to the assistant. The widget
// is public, so no session is required; continuity is keyed by the returned
// conversation code alone. A missing or stale code transparently starts a
// fresh conversation.
func HandleAssistantChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AssistantChatInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		message := strings.TrimSpace(input.Message)
		if message == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageEmpty))
			return
		}

		if len(message) > messaging.MaxContentBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentTooLong))
			return
		}

		code, reply := deps.Assistant.Converse(r.Context(), input.ConversationID, message)

		resp.RespondSuccess(w, r, map[string]any{
			"conversationId": code,
			"reply":          reply,
		})
	}
}
