package config

import (
	"strconv"
	"strings"
	"time"
)

// 输出模式取值，与 CLI 标志一一对应。
const (
	OutputVerbose = "verbose"
	OutputTable   = "table"
	OutputJSON    = "json"
	OutputCSV     = "csv"
)

// Options 是进程启动时构建一次的完整配置值，按引用传入
// orchestrator 及其协作者，取代任何全局可变状态。
type Options struct {
	// 命令行部分（仅由 CLI 填充，不读配置文件）
	Account      string `mapstructure:"-"`
	Output       string `mapstructure:"-"`
	TypeFilter   string `mapstructure:"-"`
	ShowUser     bool   `mapstructure:"-"`
	Aggregate    bool   `mapstructure:"-"`
	Debug        bool   `mapstructure:"-"`
	CacheEnabled bool   `mapstructure:"-"`

	// 远端交互
	APIBaseURL  string   `mapstructure:"APIBaseURL"`
	APIVersion  string   `mapstructure:"APIVersion"`
	UserAgent   string   `mapstructure:"UserAgent"`
	HTTPTimeout Duration `mapstructure:"HTTPTimeout"`

	// 本地状态
	CacheDir      string `mapstructure:"CacheDir"`
	AuthTokenFile string `mapstructure:"AuthTokenFile"`

	// 日志
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return &strconv.NumError{Func: "ParseDuration", Num: raw, Err: strconv.ErrSyntax}
}

// DurationValue 返回底层 time.Duration。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}
