package integration

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// recordedRequest 捕获每次请求的方法/路径/Headers，便于断言条件请求行为。
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
}

// githubStub 模拟 GitHub 的组织/用户/活动流端点，带 ETag 再验证，
// 供集成测试复用。
type githubStub struct {
	URL string

	orgFound     bool
	userFound    bool
	identityETag string
	feedETag     string
	feedBody     string

	mu       sync.Mutex
	requests []recordedRequest

	server *httptest.Server
}

func newGitHubStub(t *testing.T) *githubStub {
	t.Helper()

	stub := &githubStub{
		orgFound: true,
		feedBody: `[]`,
	}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.handle))
	stub.URL = stub.server.URL
	t.Cleanup(stub.server.Close)
	return stub
}

// Close 提前关闭上游，模拟网络不可达。
func (s *githubStub) Close() {
	s.server.Close()
}

func (s *githubStub) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
	})
	s.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	if len(parts) == 3 && parts[2] == "events" {
		if s.feedETag != "" {
			if r.Header.Get("If-None-Match") == `"`+s.feedETag+`"` {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("ETag", `"`+s.feedETag+`"`)
		}
		io.WriteString(w, s.feedBody)
		return
	}

	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Not Found"}`)
		return
	}

	namespace, account := parts[0], parts[1]
	found := (namespace == "orgs" && s.orgFound) || (namespace == "users" && s.userFound)
	if !found {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Not Found"}`)
		return
	}

	if s.identityETag != "" {
		if r.Header.Get("If-None-Match") == `"`+s.identityETag+`"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"`+s.identityETag+`"`)
	}

	kind := "User"
	if namespace == "orgs" {
		kind = "Organization"
	}
	fmt.Fprintf(w, `{"login":%q,"type":%q,"url":"%s/%s/%s","events_url":"%s/%s/%s/events{/privacy}"}`,
		account, kind, s.URL, namespace, account, s.URL, namespace, account)
}

// requestsTo 返回命中指定路径的所有请求。
func (s *githubStub) requestsTo(path string) []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hits []recordedRequest
	for _, req := range s.requests {
		if req.Path == path {
			hits = append(hits, req)
		}
	}
	return hits
}
