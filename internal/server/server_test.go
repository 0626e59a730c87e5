package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/supportagent/supportagent/internal/agent"
	"github.com/supportagent/supportagent/internal/config"
	"github.com/supportagent/supportagent/internal/models"
	"github.com/supportagent/supportagent/internal/security"
	"github.com/supportagent/supportagent/internal/server"
	"github.com/supportagent/supportagent/internal/session"
	"github.com/supportagent/supportagent/internal/tools"
)

type echoProvider struct{}

func (echoProvider) Name() string  { return "echo" }
func (echoProvider) Model() string { return "echo-1" }

func (echoProvider) Generate(_ context.Context, req agent.Request) (*agent.Response, error) {
	last := req.Turns[len(req.Turns)-1]
	return &agent.Response{Text: "echo: " + last.Text}, nil
}

func newTestServer(t *testing.T, apiKeys ...string) (*httptest.Server, session.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.APIKeys = apiKeys

	reg, err := tools.NewRegistry(tools.SayHelloTool(), tools.CalculateTool())
	if err != nil {
		t.Fatal(err)
	}
	store := session.NewFileStore(t.TempDir())
	ex := agent.NewExchanger(agent.New(echoProvider{}, reg), store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := server.New(cfg, server.Deps{
		Exchanger: ex,
		Store:     store,
		Registry:  reg,
		Validator: security.NewInputValidator(cfg.MaxInputLength),
	})
	ts := httptest.NewServer(srv.Handler(ctx))
	t.Cleanup(ts.Close)
	return ts, store
}

func TestChatPersistsSession(t *testing.T) {
	ts, store := newTestServer(t)

	for _, msg := range []string{"hello", "again"} {
		resp, err := http.Post(ts.URL+"/api/v1/chat", "application/json",
			strings.NewReader(`{"session_id":"web-1","message":"`+msg+`"}`))
		if err != nil {
			t.Fatal(err)
		}
		var body models.ChatResponse
		json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || body.Answer != "echo: "+msg {
			t.Fatalf("status %d, body %+v", resp.StatusCode, body)
		}
	}

	msgs, err := store.Load(context.Background(), "web-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 4 {
		t.Errorf("expected 4 stored messages, got %d", len(msgs))
	}
}

func TestRoutes(t *testing.T) {
	ts, _ := newTestServer(t, "secret")

	tests := []struct {
		path string
		key  string
		want int
	}{
		{"/health", "", http.StatusOK},
		{"/api/v1/tools", "", http.StatusUnauthorized},
		{"/api/v1/tools", "secret", http.StatusOK},
		{"/api/v1/sessions", "secret", http.StatusOK},
		{"/api/v1/sessions/nope", "secret", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+tt.path, nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.want)
			}
			if resp.Header.Get("X-Request-ID") == "" {
				t.Error("missing request id")
			}
		})
	}
}
