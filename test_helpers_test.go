package main

import (
	"path/filepath"
	"runtime"
	"testing"
)

// configFixture 返回 internal/config/testdata 下指定夹具的绝对路径。
// main 包位于模块根目录，测试源文件所在目录即项目根。
func configFixture(t *testing.T, name string) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("无法定位测试源文件")
	}
	return filepath.Join(filepath.Dir(file), "internal", "config", "testdata", name)
}
