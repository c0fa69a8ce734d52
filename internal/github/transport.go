package github

import (
	"net"
	"net/http"
	"time"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/config"
)

// Shared HTTP transport tunings，复用长连接并集中配置超时。
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          10,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// NewHTTPClient 返回共享 http.Client，流水线的两次请求复用同一实例。
func NewHTTPClient(opts *config.Options) *http.Client {
	timeout := 30 * time.Second
	if opts != nil && opts.HTTPTimeout.DurationValue() > 0 {
		timeout = opts.HTTPTimeout.DurationValue()
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: defaultTransport.Clone(),
	}
}
