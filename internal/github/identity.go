package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/logging"
)

// AccountKind 区分账户所属的命名空间。两个命名空间在远端互斥，
// 对任一合法账户名最多只有一个端点会成功。
type AccountKind string

const (
	KindOrganization AccountKind = "Organization"
	KindUser         AccountKind = "User"
)

// Identity 是解析后的组织或用户记录。Raw 保留完整载荷，
// 供 -u 输出与缓存落盘使用。
type Identity struct {
	Kind        AccountKind
	AccountName string
	URL         string
	FeedURL     string
	Raw         json.RawMessage
}

// Resolution 携带命中的命名空间与对应的 fetch 结果
// （Fresh 或 NotModified，不会是 Failure）。
type Resolution struct {
	Kind   AccountKind
	Result *Result
}

// ErrUnknownAccount 表示组织与用户端点都以 HTTP 失败告终，
// 账户在两个命名空间下都不存在。
var ErrUnknownAccount = errors.New("account not found in either namespace")

// events_url 中的占位符段形如 {/privacy}，取流前必须剥除。
var urlPlaceholders = regexp.MustCompile(`\{[^}]*\}`)

// Resolver 按固定顺序（组织端点优先，用户端点其次）解析账户身份，
// 第一个成功者胜出。顺序是刻意的策略：组织命中率在观测上更高。
type Resolver struct {
	client *Client
	logger *logrus.Logger
}

// NewResolver 构造身份解析器。
func NewResolver(client *Client, logger *logrus.Logger) *Resolver {
	return &Resolver{client: client, logger: logger}
}

// Resolve 尝试两个命名空间。etag 非空时两次尝试都走条件请求。
// 两个端点都是 HTTP 失败 → ErrUnknownAccount；
// 任一端点出现传输层错误且无一成功 → 返回该传输错误，
// 调用方可据此回退到缓存身份。
func (r *Resolver) Resolve(ctx context.Context, account string, etag string) (*Resolution, error) {
	attempts := []struct {
		kind AccountKind
		url  string
	}{
		{KindOrganization, r.client.OrgURL(account)},
		{KindUser, r.client.UserURL(account)},
	}

	var transportErr error
	for _, attempt := range attempts {
		result, err := r.client.Fetch(ctx, attempt.url, etag)
		if err != nil {
			transportErr = err
			continue
		}
		if result.Outcome == OutcomeFailure {
			fields := logging.BaseFields("resolve_identity", account)
			fields["namespace"] = string(attempt.kind)
			fields["status"] = result.Status
			r.logger.WithFields(fields).Debug("namespace_miss")
			continue
		}
		return &Resolution{Kind: attempt.kind, Result: result}, nil
	}

	if transportErr != nil {
		return nil, transportErr
	}
	return nil, ErrUnknownAccount
}

// identityFields 列出身份载荷中被读取的字段。
type identityFields struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	EventsURL string `json:"events_url"`
}

// ParseIdentity 从身份载荷构建 Identity。kind 为空时从载荷的
// type 字段推断（缓存回退路径没有端点信息可用）。
func ParseIdentity(kind AccountKind, account string, raw json.RawMessage) (*Identity, error) {
	var fields identityFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse identity payload: %w", err)
	}
	if fields.URL == "" {
		return nil, fmt.Errorf("identity payload for %s lacks canonical url", account)
	}

	if kind == "" {
		kind = KindUser
		if fields.Type == string(KindOrganization) {
			kind = KindOrganization
		}
	}

	return &Identity{
		Kind:        kind,
		AccountName: account,
		URL:         fields.URL,
		FeedURL:     urlPlaceholders.ReplaceAllString(fields.EventsURL, ""),
		Raw:         raw,
	}, nil
}
