package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 账户名等基础字段，便于不同入口复用。
func BaseFields(action, account string) logrus.Fields {
	return logrus.Fields{
		"action":  action,
		"account": account,
	}
}

// FetchFields 提供 API 请求日志的公共字段，供客户端与流水线复用。
func FetchFields(requestID, url string, status int, conditional bool) logrus.Fields {
	return logrus.Fields{
		"request_id":  requestID,
		"url":         url,
		"status":      status,
		"conditional": conditional,
	}
}
