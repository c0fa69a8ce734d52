package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/config"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/logging"
)

// Outcome 是对一次 API 响应的三分类，直接由状态码导出，
// 绝不通过载荷形状推断。
type Outcome int

const (
	// OutcomeFresh 表示 2xx/3xx（304 除外），携带新的载荷。
	OutcomeFresh Outcome = iota
	// OutcomeNotModified 表示 304，远端确认缓存仍然有效。
	OutcomeNotModified
	// OutcomeFailure 表示其余状态码，携带状态与原始响应体。
	OutcomeFailure
)

// Result 描述一次 fetch 的分类结果。ETag 仅在 Fresh 且远端给出
// 实体标签时填充，已归一化（仅保留十六进制字符）。
type Result struct {
	Outcome Outcome
	Status  int
	ETag    string
	Body    json.RawMessage
}

// Client 封装对 GitHub REST API 的单次、无重试的条件请求。
// 同一时刻最多一个在途请求，由调用方的串行流程保证。
type Client struct {
	httpClient *http.Client
	logger     *logrus.Logger
	baseURL    string
	userAgent  string
	apiVersion string
	authToken  string
	trace      io.Writer // nil 时完全关闭线上报文转储（测试执行模式）
}

// NewClient 构造 API 客户端。trace 非空时将完整的出入报文写入该流。
func NewClient(httpClient *http.Client, logger *logrus.Logger, opts *config.Options, authToken string, trace io.Writer) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(opts.APIBaseURL, "/"),
		userAgent:  opts.UserAgent,
		apiVersion: opts.APIVersion,
		authToken:  authToken,
		trace:      trace,
	}
}

// OrgURL 返回组织查询端点。
func (c *Client) OrgURL(account string) string {
	return c.baseURL + "/orgs/" + account
}

// UserURL 返回用户查询端点。
func (c *Client) UserURL(account string) string {
	return c.baseURL + "/users/" + account
}

// Fetch 对 url 执行一次 GET。etag 非空时附带 If-None-Match 做条件请求。
// 返回 error 仅代表传输层问题（连接、超时、响应体读取、JSON 损坏）；
// HTTP 层的失败通过 OutcomeFailure 表达。
func (c *Client) Fetch(ctx context.Context, url string, etag string) (*Result, error) {
	started := time.Now()
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-GitHub-Api-Version", c.apiVersion)
	if c.authToken != "" {
		req.Header.Set("Authorization", "token "+c.authToken)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", `"`+etag+`"`)
	}

	c.traceRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).
			WithFields(logging.FetchFields(requestID, url, 0, etag != "")).
			Warn("api_request_failed")
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.traceResponse(resp, body)

	result := &Result{Status: resp.StatusCode}

	switch {
	case resp.StatusCode == http.StatusNotModified:
		result.Outcome = OutcomeNotModified
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Outcome = OutcomeFresh
		if len(body) == 0 {
			body = []byte("{}")
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("invalid JSON payload from %s", url)
		}
		result.Body = json.RawMessage(body)
		result.ETag = NormalizeETag(resp.Header.Get("ETag"))
	default:
		result.Outcome = OutcomeFailure
		result.Body = json.RawMessage(body)
	}

	fields := logging.FetchFields(requestID, url, resp.StatusCode, etag != "")
	fields["action"] = "api_fetch"
	fields["outcome"] = result.Outcome.String()
	fields["duration_ms"] = time.Since(started).Milliseconds()
	c.logger.WithFields(fields).Debug("api_fetch_done")

	return result, nil
}

func (o Outcome) String() string {
	switch o {
	case OutcomeFresh:
		return "fresh"
	case OutcomeNotModified:
		return "not_modified"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// NormalizeETag 将实体标签归一化为仅含十六进制字符的不透明串，
// 去掉引号与 W/ 等弱校验前缀。
func NormalizeETag(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
