package config

import (
	"os"
	"strings"
)

// ResolveAuthToken 返回用于 Authorization 头的凭证。
// 优先级：GH_ACT_TOKEN 环境变量 > AuthTokenFile 文件内容。
// 凭证缺失不是错误：未认证请求照常进行（受 GitHub 限流约束），
// 仅测试执行模式要求凭证必须存在，由调用方自行判定。
func (o *Options) ResolveAuthToken() string {
	if token := strings.TrimSpace(os.Getenv("GH_ACT_TOKEN")); token != "" {
		return token
	}

	if o.AuthTokenFile == "" {
		return ""
	}

	// 文件缺失或不可读都按无凭证处理
	data, err := os.ReadFile(o.AuthTokenFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
