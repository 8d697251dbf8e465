package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	assistantapi "github.com/futig/consult-assistant/internal/api/assistant"
	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type usecaseMock struct{ mock.Mock }

func (m *usecaseMock) Reply(ctx context.Context, req entity.ChatRequest) (*entity.ChatReply, error) {
	args := m.Called(ctx, req)
	reply, _ := args.Get(0).(*entity.ChatReply)
	return reply, args.Error(1)
}

func (m *usecaseMock) Search(ctx context.Context, req entity.SearchRequest) (*entity.SearchResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*entity.SearchResponse)
	return resp, args.Error(1)
}

func (m *usecaseMock) Theme(conversationID string) entity.ThemeState {
	return m.Called(conversationID).Get(0).(entity.ThemeState)
}

func (m *usecaseMock) ClassifyTheme(text string) entity.ThemeState {
	return m.Called(text).Get(0).(entity.ThemeState)
}

func newRouter(uc *usecaseMock) http.Handler {
	r := chi.NewRouter()
	assistantapi.RegisterRoutes(r, assistantapi.NewHandler(uc, validator.NewValidator(config.AssistantConfig{MaxMessageChars: 4000})))
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestChat(t *testing.T) {
	uc := &usecaseMock{}
	uc.On("Reply", mock.Anything, mock.MatchedBy(func(req entity.ChatRequest) bool {
		return req.VisitorID == "v1" && len(req.Messages) == 1 && req.Pricing != nil && req.Pricing.CurrentPrice == 10000
	})).Return(&entity.ChatReply{ConversationID: "c1", Text: "Hi!", Locale: "en", Flags: []entity.FlagKind{}}, nil)

	rec := do(newRouter(uc), http.MethodPost, "/assistant/chat",
		`{"visitor_id":"v1","messages":[{"role":"user","content":"hello"}],"pricing":{"current_price":10000}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var reply entity.ChatReply
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reply))
	assert.Equal(t, "c1", reply.ConversationID)
	assert.Equal(t, "Hi!", reply.Text)
}

func TestChat_BadRequests(t *testing.T) {
	uc := &usecaseMock{}
	router := newRouter(uc)

	for name, body := range map[string]string{
		"malformed json":  `{"visitor_id":`,
		"missing visitor": `{"messages":[{"role":"user","content":"hello"}]}`,
		"no messages":     `{"visitor_id":"v1","messages":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(router, http.MethodPost, "/assistant/chat", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	uc.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything)
}

func TestChat_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"rate limited", entity.ErrRateLimited, http.StatusTooManyRequests},
		{"provider", &entity.ProviderError{Provider: "llm", StatusCode: 500}, http.StatusBadGateway},
		{"configuration", &entity.ConfigurationError{Key: "LLM_TOKEN"}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &usecaseMock{}
			uc.On("Reply", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := do(newRouter(uc), http.MethodPost, "/assistant/chat",
				`{"visitor_id":"v1","messages":[{"role":"user","content":"hello"}]}`)

			assert.Equal(t, tt.status, rec.Code)
			var body entity.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, http.StatusText(tt.status), body.Error)
		})
	}
}

func TestSearch(t *testing.T) {
	uc := &usecaseMock{}
	uc.On("Search", mock.Anything, entity.SearchRequest{VisitorID: "v1", Query: "pricing", Limit: 3}).
		Return(&entity.SearchResponse{Chunks: []entity.RetrievedChunk{{ChunkText: "a", DocumentTitle: "FAQ", Similarity: 0.8}}}, nil)

	rec := do(newRouter(uc), http.MethodPost, "/assistant/search", `{"visitor_id":"v1","query":"pricing","limit":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp entity.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Chunks, 1)
	assert.Equal(t, "FAQ", resp.Chunks[0].DocumentTitle)
}

func TestThemeEndpoints(t *testing.T) {
	uc := &usecaseMock{}
	uc.On("ClassifyTheme", "financial audit").Return(entity.ThemeState{ActiveTheme: "idle"})
	uc.On("Theme", "c-42").Return(entity.ThemeState{ActiveTheme: "healthcare", Confidence: 0.75})
	router := newRouter(uc)

	rec := do(router, http.MethodPost, "/assistant/theme", `{"text":"financial audit"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"active_theme":"idle","confidence":0}`, rec.Body.String())

	rec = do(router, http.MethodGet, "/assistant/conversations/c-42/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"active_theme":"healthcare","confidence":0.75}`, rec.Body.String())

	rec = do(router, http.MethodPost, "/assistant/theme", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
