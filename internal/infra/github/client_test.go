package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/vietddude/orglens/internal/engine"
)

type fakePauser struct {
	pauses []engine.RateLimit
}

func (p *fakePauser) Pause(ctx context.Context, rl engine.RateLimit) error {
	p.pauses = append(p.pauses, rl)
	return nil
}

func newTestClient(serverURL string) (*Client, *fakePauser) {
	pauser := &fakePauser{}
	client := NewClient(Config{BaseURL: serverURL, Token: "test-token"}, pauser, nil)
	return client, pauser
}

func TestListOrgRepos_Paginates(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `[
				{"name":"alpha","full_name":"org/alpha","html_url":"https://github.com/org/alpha","stargazers_count":3,"language":"Python"},
				{"name":"beta","full_name":"org/beta","description":null,"language":null}
			]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	repos, err := client.ListOrgRepos(context.Background(), "org")
	if err != nil {
		t.Fatalf("ListOrgRepos failed: %v", err)
	}

	if gotAuth != "token test-token" {
		t.Errorf("Authorization = %q, want token test-token", gotAuth)
	}
	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}
	if repos[0].FullName != "org/alpha" || repos[0].Stars != 3 || repos[0].Language != "Python" {
		t.Errorf("repo[0] = %+v", repos[0])
	}
	// Null description and language decode as empty strings.
	if repos[1].Description != "" || repos[1].Language != "" {
		t.Errorf("repo[1] = %+v, want empty description and language", repos[1])
	}
}

func TestGetReadme_DecodesWrappedBase64(t *testing.T) {
	body := "# Title\nFirst line of prose."
	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	// The API wraps base64 at 60 columns; reproduce that.
	wrapped := encoded[:10] + "\n" + encoded[10:]

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"content":%q,"encoding":"base64"}`, wrapped)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	got, err := client.GetReadme(context.Background(), "org/alpha")
	if err != nil {
		t.Fatalf("GetReadme failed: %v", err)
	}
	if got != body {
		t.Errorf("got %q, want %q", got, body)
	}
}

func TestGetReadme_MissingIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	if _, err := client.GetReadme(context.Background(), "org/alpha"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetTopics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "application/vnd.github.mercy-preview+json" {
			t.Errorf("Accept = %q", accept)
		}
		fmt.Fprint(w, `{"names":["serverless","bedrock"]}`)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	topics, err := client.GetTopics(context.Background(), "org/alpha")
	if err != nil {
		t.Fatalf("GetTopics failed: %v", err)
	}
	if len(topics) != 2 || topics[0] != "serverless" {
		t.Errorf("topics = %v", topics)
	}
}

func TestGet_PausesOnQuotaExhaustionAndRetries(t *testing.T) {
	reset := time.Now().Add(30 * time.Second).Unix()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{"name":"alpha","full_name":"org/alpha"}`)
	}))
	defer server.Close()

	client, pauser := newTestClient(server.URL)
	repo, err := client.GetRepo(context.Background(), "org/alpha")
	if err != nil {
		t.Fatalf("GetRepo failed: %v", err)
	}

	if calls != 2 {
		t.Errorf("server hit %d times, want 2", calls)
	}
	if len(pauser.pauses) != 1 {
		t.Fatalf("paused %d times, want 1", len(pauser.pauses))
	}
	if got := pauser.pauses[0].Reset.Unix(); got != reset {
		t.Errorf("pause reset = %d, want %d", got, reset)
	}
	if repo.FullName != "org/alpha" {
		t.Errorf("repo = %+v", repo)
	}
}

func TestGet_ForbiddenWithQuotaLeftIsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "37")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, pauser := newTestClient(server.URL)
	_, err := client.GetRepo(context.Background(), "org/alpha")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("error = %v, want *APIError with 403", err)
	}
	if len(pauser.pauses) != 0 {
		t.Errorf("client paused on a non-quota 403")
	}
}
