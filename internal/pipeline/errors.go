package pipeline

import "errors"

// 阶段边界的错误种类。CLI 将它们映射为固定的用户可见消息与非零退出码。
var (
	// ErrAccountNotFound 表示组织与用户命名空间都无法识别该账户。
	ErrAccountNotFound = errors.New("github account not found")

	// ErrFeedUnavailable 表示活动流端点失败且没有可用缓存。
	ErrFeedUnavailable = errors.New("unable to fetch account events")

	// ErrCredentialMissing 仅测试执行模式要求凭证；正常运行
	// 允许未认证请求（受远端限流约束）。
	ErrCredentialMissing = errors.New("authorization token unavailable")
)
