package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/version"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
// path 为空时使用 GH_ACT_CONFIG 或用户配置目录下的默认文件；
// 默认文件不存在不算错误，显式指定的文件缺失则报错。
func Load(path string) (*Options, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv("GH_ACT_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "gh-act", "config.toml")
		}
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("读取配置失败: %w", err)
			}
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(&opts)

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	absCache, err := filepath.Abs(opts.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("无法解析缓存目录: %w", err)
	}
	opts.CacheDir = absCache

	return &opts, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APIBaseURL", "https://api.github.com")
	v.SetDefault("APIVersion", "2022-11-28")
	v.SetDefault("UserAgent", "")
	v.SetDefault("HTTPTimeout", "30s")
	v.SetDefault("CacheDir", filepath.Join(os.TempDir(), "gh-act"))
	v.SetDefault("AuthTokenFile", ".auth-token")
	v.SetDefault("LogLevel", "warning")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
}

func applyDefaults(o *Options) {
	if o.Output == "" {
		o.Output = OutputVerbose
	}
	if o.UserAgent == "" {
		o.UserAgent = "gh-act/v" + version.Version
	}
	if o.HTTPTimeout.DurationValue() == 0 {
		o.HTTPTimeout = Duration(30 * time.Second)
	}
	o.CacheEnabled = true
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
