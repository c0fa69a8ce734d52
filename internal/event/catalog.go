package event

// TypeDescription 将事件类型与 GitHub 文档中的说明配对。
type TypeDescription struct {
	Type        string
	Description string
}

// catalog 为 GitHub REST API（2022-11-28）定义的全部公开事件类型，
// 按字典序排列。参见 https://docs.github.com/en/rest/using-the-rest-api/github-event-types
var catalog = []TypeDescription{
	{"CommitCommentEvent", "A commit comment is created."},
	{"CreateEvent", "A Git branch or tag is created."},
	{"DeleteEvent", "A Git branch or tag is deleted."},
	{"ForkEvent", "A user forks a repository."},
	{"GollumEvent", "A wiki page is created or updated."},
	{"IssueCommentEvent", "Activity related to an issue or pull request comment."},
	{"IssuesEvent", "Activity related to an issue."},
	{"MemberEvent", "Activity related to repository collaborators."},
	{"PublicEvent", "When a private repository is made public."},
	{"PullRequestEvent", "Activity related to pull requests."},
	{"PullRequestReviewEvent", "Activity related to pull request reviews."},
	{"PullRequestReviewCommentEvent", "Activity related to pull request review comments in the pull request's unified diff."},
	{"PullRequestReviewThreadEvent", "Activity related to a comment thread on a pull request being marked as resolved or unresolved."},
	{"PushEvent", "One or more commits are pushed to a repository branch or tag."},
	{"ReleaseEvent", "Activity related to a release."},
	{"SponsorshipEvent", "Activity related to a sponsorship listing."},
	{"WatchEvent", "When someone stars a repository."},
}

// Catalog 返回完整的事件类型目录（副本，调用方可安全修改）。
func Catalog() []TypeDescription {
	out := make([]TypeDescription, len(catalog))
	copy(out, catalog)
	return out
}

// KnownType 判断给定类型是否属于目录中的已知事件类型。
func KnownType(eventType string) bool {
	for _, td := range catalog {
		if td.Type == eventType {
			return true
		}
	}
	return false
}
