package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SADD1990/kkhebrah/internal/app/ai"
	"github.com/SADD1990/kkhebrah/internal/app/assistant"
	"github.com/SADD1990/kkhebrah/internal/app/auth"
	"github.com/SADD1990/kkhebrah/internal/app/messaging"
	"github.com/SADD1990/kkhebrah/internal/app/profile"
	"github.com/SADD1990/kkhebrah/internal/app/session"
	"github.com/SADD1990/kkhebrah/internal/configs"
	"github.com/SADD1990/kkhebrah/internal/pkg/errs"
)

// scriptedGenerator drives the AI gateway from tests without network access.
type scriptedGenerator struct {
	reply func(req ai.Request) (string, error)
}

func (g *scriptedGenerator) Generate(ctx context.Context, req ai.Request) (string, error) {
	return g.reply(req)
}

func alwaysFailing() *scriptedGenerator {
	return &scriptedGenerator{reply: func(ai.Request) (string, error) {
		return "", errors.New("model unreachable")
	}}
}

func alwaysReplying(response string) *scriptedGenerator {
	return &scriptedGenerator{reply: func(ai.Request) (string, error) {
		return response, nil
	}}
}

// newTestServer wires a full router against simulated collaborators with zero
// artificial latency.
func newTestServer(t *testing.T, gen ai.Generator) (http.Handler, *AppDeps) {
	t.Helper()

	gateway := ai.NewGateway(gen)
	hub := messaging.NewHub(10 * time.Millisecond)
	registry := assistant.NewRegistry(gateway)
	t.Cleanup(func() {
		hub.Shutdown()
		registry.Shutdown()
	})

	deps := &AppDeps{
		Config: &configs.AppConfig{
			Environment: "development",
			Port:        8080,
			JWTSecret:   "test-secret",
		},
		Gateway:   gateway,
		Sessions:  session.NewStore(),
		Auth:      auth.NewSimulatedService(0),
		Threads:   hub,
		Assistant: registry,
		Experts:   profile.NewDirectory(),
	}

	return Router(deps), deps
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())

	return rec, env
}

func loginToken(t *testing.T, router http.Handler) string {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "sara@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code, env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)

	return data.Token
}

func TestHealth(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	rec, env := doJSON(t, router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, env.Code)
}

func TestGatedRoutesRejectAnonymous(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	gated := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/profile", nil},
		{http.MethodGet, "/api/profile/suggestions", nil},
		{http.MethodPost, "/api/profile/skills", map[string]string{"name": "م", "description": "و"}},
		{http.MethodGet, "/api/messages", nil},
		{http.MethodPost, "/api/messages", map[string]string{"text": "مرحبا"}},
		{http.MethodPost, "/api/auth/logout", nil},
	}

	for _, route := range gated {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec, env := doJSON(t, router, route.method, route.path, "", route.body)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, errs.ErrUnauthorized, env.Code)
		})
	}
}

func TestGatedRouteRejectsForgedToken(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	rec, env := doJSON(t, router, http.MethodGet, "/api/profile", "not-a-real-token", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errs.ErrUnauthorized, env.Code)
}

func TestLoginProfileSkillLogoutFlow(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	token := loginToken(t, router)

	// Profile reflects the fabricated sample member.
	rec, env := doJSON(t, router, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code)

	var profileData struct {
		User profile.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profileData))
	assert.Equal(t, "سارة عبدالله", profileData.User.Name)
	require.Len(t, profileData.User.Skills, 2)

	// Adding a skill appends without touching prior entries.
	rec, env = doJSON(t, router, http.MethodPost, "/api/profile/skills", token, map[string]string{
		"name":        "التصوير الفوتوغرافي",
		"description": "تصوير المنتجات والأشخاص باحترافية",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code, env.Message)

	rec, env = doJSON(t, router, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &profileData))
	require.Len(t, profileData.User.Skills, 3)
	assert.Equal(t, "التصوير الفوتوغرافي", profileData.User.Skills[2].Name)
	assert.NotEmpty(t, profileData.User.Skills[2].ID)

	// Logging out kills the session; the token no longer resolves.
	rec, env = doJSON(t, router, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errs.ErrUnauthorized, env.Code)
}

func TestLoginRejectsExistingSession(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	token := loginToken(t, router)

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/login", token, map[string]string{
		"email":    "sara@example.com",
		"password": "secret",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, errs.ErrAlreadyLoggedIn, env.Code)
}

func TestSignupFabricatesEmptyProfile(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "فهد",
		"email":    "fahad@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code, env.Message)

	var data struct {
		Token string       `json:"token"`
		User  profile.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "فهد", data.User.Name)
	assert.Empty(t, data.User.Skills)
}

func TestAddSkillRejectsIncompleteInput(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())
	token := loginToken(t, router)

	cases := []map[string]string{
		{"name": "", "description": "وصف"},
		{"name": "مهارة", "description": ""},
		{"name": "   ", "description": "   "},
	}

	for i, body := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			rec, env := doJSON(t, router, http.MethodPost, "/api/profile/skills", token, body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, errs.ErrSkillIncomplete, env.Code)
		})
	}
}

func TestProfileSuggestionsServesFailureNotice(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())
	token := loginToken(t, router)

	rec, env := doJSON(t, router, http.MethodGet, "/api/profile/suggestions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code)

	var data struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Suggestions, 1)
	assert.Contains(t, data.Suggestions[0], "حدث خطأ")
}

func TestRecommendationsFallbackOnModelFailure(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	rec, env := doJSON(t, router, http.MethodGet, "/api/recommendations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code)

	var data struct {
		Recommendations []ai.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Recommendations, 3)
	assert.Equal(t, "dummy1", data.Recommendations[0].ID)

	// The default interest is embedded in every fallback skill.
	for _, r := range data.Recommendations {
		assert.Contains(t, r.Skill, "ريادة الأعمال")
	}
}

func TestSearchReturnsResults(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	rec, env := doJSON(t, router, http.MethodGet, "/api/search/%D8%A7%D9%84%D8%B7%D8%A8%D8%AE?sort=newest", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code)

	var data struct {
		Results []ai.Recommendation `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Results, 3)

	ids := make(map[string]bool)
	for _, r := range data.Results {
		ids[r.ID] = true
		assert.Contains(t, r.Skill, "الطبخ")
	}
	assert.Len(t, ids, 3)
}

func TestGetExpertFallsBackToDefault(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	for _, id := range []string{"ahmed", "does-not-exist"} {
		rec, env := doJSON(t, router, http.MethodGet, "/api/experts/"+id, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Zero(t, env.Code)

		var data struct {
			Expert profile.User `json:"expert"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "أحمد الغامدي", data.Expert.Name)
	}
}

func TestListMessagesSeedsThread(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())
	token := loginToken(t, router)

	rec, env := doJSON(t, router, http.MethodGet, "/api/messages", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code)

	var data struct {
		Messages []messaging.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Messages, 2)
	assert.Equal(t, messaging.SenderExpert, data.Messages[0].Sender)
	assert.Equal(t, messaging.SenderUser, data.Messages[1].Sender)
}

func TestSendMessageCarriesVerdict(t *testing.T) {
	router, _ := newTestServer(t, alwaysReplying("FLAGGED"))
	token := loginToken(t, router)

	rec, env := doJSON(t, router, http.MethodPost, "/api/messages", token, map[string]string{
		"text": "رسالة مشبوهة",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code, env.Message)

	var data struct {
		Message messaging.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, messaging.SenderUser, data.Message.Sender)
	require.NotNil(t, data.Message.Status)
	assert.Equal(t, ai.VerdictFlagged, *data.Message.Status)
}

func TestSendMessageSucceedsWhenModerationIsDown(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())
	token := loginToken(t, router)

	rec, env := doJSON(t, router, http.MethodPost, "/api/messages", token, map[string]string{
		"text": "مرحبا",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code, env.Message)

	var data struct {
		Message messaging.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotNil(t, data.Message.Status)
	assert.Equal(t, ai.VerdictSafe, *data.Message.Status)
}

func TestSendMessageValidation(t *testing.T) {
	router, _ := newTestServer(t, alwaysReplying("SAFE"))
	token := loginToken(t, router)

	rec, env := doJSON(t, router, http.MethodPost, "/api/messages", token, map[string]string{"text": "   "})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, errs.ErrMessageEmpty, env.Code)

	rec, env = doJSON(t, router, http.MethodPost, "/api/messages", token, map[string]string{
		"text": strings.Repeat("ن", messaging.MaxContentBytes),
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, errs.ErrMessageContentTooLong, env.Code)
}

func TestAssistantChatContinuity(t *testing.T) {
	gen := &scriptedGenerator{reply: func(req ai.Request) (string, error) {
		return fmt.Sprintf("رد %d", len(req.Turns)), nil
	}}
	router, _ := newTestServer(t, gen)

	rec, env := doJSON(t, router, http.MethodPost, "/api/assistant/chat", "", map[string]string{
		"message": "ما هي منصة خبرة؟",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code, env.Message)

	var first struct {
		ConversationID string `json:"conversationId"`
		Reply          string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.NotEmpty(t, first.ConversationID)
	assert.Equal(t, "رد 1", first.Reply)

	rec, env = doJSON(t, router, http.MethodPost, "/api/assistant/chat", "", map[string]any{
		"conversationId": first.ConversationID,
		"message":        "وكيف أسجل؟",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code)

	var second struct {
		ConversationID string `json:"conversationId"`
		Reply          string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, first.ConversationID, second.ConversationID)

	// The second turn carries the first exchange plus the new message.
	assert.Equal(t, "رد 3", second.Reply)
}

func TestAssistantChatRejectsEmptyMessage(t *testing.T) {
	router, _ := newTestServer(t, alwaysReplying("أهلاً"))

	rec, env := doJSON(t, router, http.MethodPost, "/api/assistant/chat", "", map[string]string{
		"message": "  ",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, errs.ErrMessageEmpty, env.Code)
}

func TestBindRejectsWrongContentType(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("email=sara"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, errs.ErrUnsupportedMediaType, env.Code)
}

func TestBindRejectsUnknownFields(t *testing.T) {
	router, _ := newTestServer(t, alwaysFailing())

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "sara@example.com",
		"password": "secret",
		"extra":    "field",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, errs.ErrInvalidJSONFormat, env.Code)
}

func TestLogoutDiscardsPendingExpertReply(t *testing.T) {
	router, deps := newTestServer(t, alwaysReplying("SAFE"))
	token := loginToken(t, router)

	rec, env := doJSON(t, router, http.MethodPost, "/api/messages", token, map[string]string{
		"text": "سؤال قبل الخروج",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code, env.Message)

	// One live session; grab its thread before logout tears it down.
	require.Equal(t, 1, deps.Sessions.Len())

	rec, env = doJSON(t, router, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, env.Code)

	// Wait past the scripted reply delay; the session store stays empty and
	// nothing panics from a reply landing after teardown.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, deps.Sessions.Len())
}
