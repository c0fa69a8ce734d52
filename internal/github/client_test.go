package github

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/config"
)

func TestFetchFreshClassification(t *testing.T) {
	var gotHeaders http.Header
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("ETag", `W/"abc123"`)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"url":"https://api.github.com/orgs/acme"}`)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, "secret", nil)
	result, err := client.Fetch(context.Background(), upstream.URL+"/orgs/acme", "")
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}

	if result.Outcome != OutcomeFresh {
		t.Fatalf("expected fresh outcome, got %s", result.Outcome)
	}
	if result.ETag != "abc123" {
		t.Fatalf("etag should be normalized to hex, got %q", result.ETag)
	}
	if !strings.Contains(string(result.Body), "orgs/acme") {
		t.Fatalf("unexpected body: %s", string(result.Body))
	}

	if ua := gotHeaders.Get("User-Agent"); !strings.HasPrefix(ua, "gh-act/v") {
		t.Fatalf("unexpected User-Agent: %s", ua)
	}
	if v := gotHeaders.Get("X-GitHub-Api-Version"); v != "2022-11-28" {
		t.Fatalf("unexpected api version header: %s", v)
	}
	if auth := gotHeaders.Get("Authorization"); auth != "token secret" {
		t.Fatalf("unexpected Authorization: %s", auth)
	}
	if inm := gotHeaders.Get("If-None-Match"); inm != "" {
		t.Fatalf("unconditional request must not send If-None-Match, got %s", inm)
	}
}

func TestFetchConditionalNotModified(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != `"abc123"` {
			t.Errorf("expected quoted etag, got %q", r.Header.Get("If-None-Match"))
		}
		w.WriteHeader(http.StatusNotModified)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, "", nil)
	result, err := client.Fetch(context.Background(), upstream.URL+"/orgs/acme", "abc123")
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if result.Outcome != OutcomeNotModified {
		t.Fatalf("expected not_modified, got %s", result.Outcome)
	}
	if result.Status != http.StatusNotModified {
		t.Fatalf("unexpected status: %d", result.Status)
	}
}

func TestFetchFailureCarriesStatusAndBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Not Found"}`)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, "", nil)
	result, err := client.Fetch(context.Background(), upstream.URL+"/orgs/ghost", "")
	if err != nil {
		t.Fatalf("HTTP failures are outcomes, not errors: %v", err)
	}
	if result.Outcome != OutcomeFailure {
		t.Fatalf("expected failure outcome, got %s", result.Outcome)
	}
	if result.Status != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", result.Status)
	}
	if !strings.Contains(string(result.Body), "Not Found") {
		t.Fatalf("failure body should pass through: %s", string(result.Body))
	}
}

func TestFetchEmptyBodyBecomesEmptyObject(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, "", nil)
	result, err := client.Fetch(context.Background(), upstream.URL+"/orgs/acme", "")
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if string(result.Body) != "{}" {
		t.Fatalf("empty body should decode as empty object, got %s", string(result.Body))
	}
}

func TestFetchTransportErrorIsError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // 立即关闭制造连接失败

	client := newTestClient(t, upstream.URL, "", nil)
	if _, err := client.Fetch(context.Background(), upstream.URL+"/orgs/acme", ""); err == nil {
		t.Fatal("connection failure should surface as an error")
	}
}

func TestFetchWritesTrace(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"beef"`)
		io.WriteString(w, `{"ok":true}`)
	}))
	defer upstream.Close()

	var trace bytes.Buffer
	client := newTestClient(t, upstream.URL, "", &trace)
	if _, err := client.Fetch(context.Background(), upstream.URL+"/users/octocat", "beef"); err != nil {
		t.Fatalf("fetch error: %v", err)
	}

	out := trace.String()
	if !strings.Contains(out, "> GET /users/octocat HTTP/1.1") {
		t.Fatalf("trace should contain request line:\n%s", out)
	}
	if !strings.Contains(out, `> If-None-Match: "beef"`) {
		t.Fatalf("trace should contain conditional header:\n%s", out)
	}
	if !strings.Contains(out, "< HTTP/1.1 200 OK") {
		t.Fatalf("trace should contain status line:\n%s", out)
	}
	if !strings.Contains(out, `{"ok":true}`) {
		t.Fatalf("trace should contain response body:\n%s", out)
	}
}

func TestFetchNilTraceStaysSilent(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, "", nil)
	if _, err := client.Fetch(context.Background(), upstream.URL+"/orgs/acme", ""); err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	// trace 为 nil 时不应 panic，也没有任何转储可断言
}

func TestNormalizeETag(t *testing.T) {
	cases := map[string]string{
		`W/"abc123"`: "abc123",
		`"deadBEEF"`: "deadBEEF",
		``:           "",
		`"xyz-99"`:   "99",
	}
	for input, want := range cases {
		if got := NormalizeETag(input); got != want {
			t.Fatalf("NormalizeETag(%q) = %q, want %q", input, got, want)
		}
	}
}

// newTestClient builds a Client wired to a stub upstream with logs discarded.
func newTestClient(t *testing.T, baseURL, token string, trace io.Writer) *Client {
	t.Helper()

	opts := &config.Options{
		APIBaseURL:  baseURL,
		APIVersion:  "2022-11-28",
		UserAgent:   "gh-act/v1.0.0",
		HTTPTimeout: config.Duration(5 * time.Second),
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewClient(NewHTTPClient(opts), logger, opts, token, trace)
}
