package event

import (
	"encoding/json"
	"fmt"
)

// Actor 描述触发事件的用户或所属组织，字段与 GitHub REST API 一致。
type Actor struct {
	ID           int64  `json:"id"`
	Login        string `json:"login"`
	DisplayLogin string `json:"display_login,omitempty"`
	GravatarID   string `json:"gravatar_id"`
	URL          string `json:"url"`
	AvatarURL    string `json:"avatar_url"`
}

// Repo 描述事件发生的仓库。
type Repo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Event 表示活动流中的一条事件记录。Payload 按事件类型各不相同，
// 原样透传，仅在生成描述短语时解出少数字段。
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Actor     Actor           `json:"actor"`
	Repo      Repo            `json:"repo"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Public    bool            `json:"public"`
	CreatedAt string          `json:"created_at"`
	Org       *Actor          `json:"org,omitempty"`
}

// phraseFields 列出描述短语会读取的 payload 字段。
type phraseFields struct {
	Action  string `json:"action"`
	RefType string `json:"ref_type"`
	Ref     string `json:"ref"`
	Size    int    `json:"size"`
}

// Phrase 按事件类型生成一行叙述性描述；未知类型返回空串。
func (e Event) Phrase() string {
	var p phraseFields
	if len(e.Payload) > 0 {
		// payload 解析失败时按零值处理，描述短语降级但不报错
		_ = json.Unmarshal(e.Payload, &p)
	}

	switch e.Type {
	case "CommitCommentEvent":
		return fmt.Sprintf("%s a commit comment in repository %s", capitalize(p.Action), e.Repo.Name)
	case "CreateEvent":
		if p.RefType == "repository" || p.RefType == "" {
			return fmt.Sprintf("Created repository %s", e.Repo.Name)
		}
		return fmt.Sprintf("Created %s %s in repository %s", p.RefType, p.Ref, e.Repo.Name)
	case "DeleteEvent":
		return fmt.Sprintf("Deleted %s %s in repository %s", p.RefType, p.Ref, e.Repo.Name)
	case "ForkEvent":
		return fmt.Sprintf("Forked repository %s", e.Repo.Name)
	case "GollumEvent":
		return fmt.Sprintf("Created or Updated a Wiki page for repository %s", e.Repo.Name)
	case "IssueCommentEvent":
		return fmt.Sprintf("%s a comment on an issue in repository %s", capitalize(p.Action), e.Repo.Name)
	case "IssuesEvent":
		return fmt.Sprintf("%s an issue in repository %s", capitalize(p.Action), e.Repo.Name)
	case "MemberEvent":
		return fmt.Sprintf("Added a member to or edited a member permissions for collaborators of repository %s", e.Repo.Name)
	case "PublicEvent":
		return fmt.Sprintf("Private repository %s is made public.", e.Repo.Name)
	case "PullRequestEvent":
		return fmt.Sprintf("%s a pull request in repository %s", capitalize(p.Action), e.Repo.Name)
	case "PullRequestReviewEvent":
		return fmt.Sprintf("%s a pull request review in repository %s", capitalize(p.Action), e.Repo.Name)
	case "PullRequestReviewCommentEvent":
		return fmt.Sprintf("%s a pull request review comment in repository %s", capitalize(p.Action), e.Repo.Name)
	case "PullRequestReviewThreadEvent":
		return fmt.Sprintf("%s a pull request review thread in repository %s", capitalize(p.Action), e.Repo.Name)
	case "PushEvent":
		plural := "s"
		if p.Size == 1 {
			plural = ""
		}
		return fmt.Sprintf("Pushed %d commit%s to repository %s", p.Size, plural, e.Repo.Name)
	case "ReleaseEvent":
		return fmt.Sprintf("%s repository %s", capitalize(p.Action), e.Repo.Name)
	case "SponsorshipEvent":
		return fmt.Sprintf("SponsorshipEvent pertaining to %s", e.Repo.Name)
	case "WatchEvent":
		return fmt.Sprintf("Starred repository %s", e.Repo.Name)
	default:
		return ""
	}
}

// Filter 返回仅保留指定类型的事件序列，保持远端给出的顺序。
// eventType 为空串时原样返回。
func Filter(events []Event, eventType string) []Event {
	if eventType == "" {
		return events
	}
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Type == eventType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func capitalize(str string) string {
	if str == "" {
		return str
	}
	if str[0] >= 'a' && str[0] <= 'z' {
		return string(str[0]-'a'+'A') + str[1:]
	}
	return str
}
