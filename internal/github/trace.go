package github

import (
	"fmt"
	"net/http"
	"sort"
)

// traceRequest 按 curl -v 风格将出站请求行与头部写入 trace 流。
func (c *Client) traceRequest(req *http.Request) {
	if c.trace == nil {
		return
	}

	fmt.Fprintf(c.trace, "> %s %s HTTP/1.1\n", req.Method, req.URL.RequestURI())
	fmt.Fprintf(c.trace, "> Host: %s\n", req.URL.Host)
	for _, name := range sortedHeaderNames(req.Header) {
		for _, value := range req.Header.Values(name) {
			fmt.Fprintf(c.trace, "> %s: %s\n", name, value)
		}
	}
	fmt.Fprintln(c.trace, "> ")
	fmt.Fprintln(c.trace)
}

// traceResponse 写入入站状态行、头部与响应体。
func (c *Client) traceResponse(resp *http.Response, body []byte) {
	if c.trace == nil {
		return
	}

	fmt.Fprintf(c.trace, "< %s %s\n", resp.Proto, resp.Status)
	for _, name := range sortedHeaderNames(resp.Header) {
		for _, value := range resp.Header.Values(name) {
			fmt.Fprintf(c.trace, "< %s: %s\n", name, value)
		}
	}
	fmt.Fprintln(c.trace, "< ")
	if len(body) > 0 {
		fmt.Fprintf(c.trace, "%s\n", body)
	}
	fmt.Fprintln(c.trace)
}

func sortedHeaderNames(h http.Header) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
