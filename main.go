package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/cache"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/config"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/event"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/github"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/logging"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/pipeline"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/render"
)

const helpText = `Usage: gh-act [OPTION]... USER
Use GitHub API to fetch GitHub user activities and display it in the terminal.

  -u  --user         include user information
  -b  --table        tabular output
  -j  --json         output JSON data
  -c  --csv          output comma separated values
  -v  --verbose      verbose output (default)
  -a  --agg          aggregate user activities by event type
  -d  --debug        output request and response headers
  -t  --type[=TYPE]  filter user activities by event type
      --nocache      remove the cache directory and exit
      --list         list GitHub event types and exit
      --config=PATH  use an alternate configuration file
      --help         display this help and exit
      --version      output version information and exit

Writing your GitHub authentication token to the file '.auth-token' is
recommended for normal operation and required for testing.`

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	account     string
	configPath  string
	output      string
	typeFilter  string
	showUser    bool
	aggregate   bool
	debug       bool
	cacheOn     bool
	showHelp    bool
	showVersion bool
	showList    bool
	purgeOnly   bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(1)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	switch {
	case opts.showHelp:
		fmt.Fprintln(stdOut, helpText)
		return 0
	case opts.showVersion:
		printVersion()
		return 0
	case opts.showList:
		if err := render.Catalog(stdOut); err != nil {
			fmt.Fprintf(stdErr, "gh-act: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "gh-act: %v\n", err)
		return 1
	}
	applyCLIOptions(cfg, opts)

	if opts.purgeOnly {
		if err := os.RemoveAll(cfg.CacheDir); err != nil {
			fmt.Fprintf(stdErr, "gh-act: %v\n", err)
			return 1
		}
		return 0
	}

	logger, err := logging.InitLogger(cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "gh-act: %v\n", err)
		return 1
	}

	token := cfg.ResolveAuthToken()

	// 测试执行模式是替代的顶层调用方：同样的阶段，不同的观察方式
	if mode := os.Getenv("GH_ACT_TEST"); mode != "" {
		return runTestMode(mode, cfg, logger, token)
	}

	var trace io.Writer
	if cfg.Debug {
		trace = stdErr
	}

	p, err := newPipeline(cfg, logger, token, trace)
	if err != nil {
		fmt.Fprintf(stdErr, "gh-act: %v\n", err)
		return 1
	}

	events, identity, err := p.Run(context.Background(), cfg.Account)
	if err != nil {
		return reportPipelineError(err, cfg.Account)
	}

	if cfg.TypeFilter != "" {
		events = event.Filter(events, cfg.TypeFilter)
	}

	if cfg.ShowUser {
		if err := render.Identity(stdOut, identity); err != nil {
			fmt.Fprintf(stdErr, "gh-act: %v\n", err)
			return 1
		}
	}

	if err := render.Events(stdOut, cfg.Account, events, cfg); err != nil {
		fmt.Fprintf(stdErr, "gh-act: %v\n", err)
		return 1
	}
	return 0
}

// runTestMode 执行 GH_ACT_TEST 指定的阶段，检查返回值并输出稳定标记。
// 凭证在测试执行模式下是硬性要求。
func runTestMode(mode string, cfg *config.Options, logger *logrus.Logger, token string) int {
	if token == "" {
		return reportPipelineError(pipeline.ErrCredentialMissing, cfg.Account)
	}

	switch mode {
	case "parse":
		marker := struct {
			User       bool   `json:"user"`
			Output     string `json:"output"`
			Type       string `json:"type"`
			Agg        bool   `json:"agg"`
			Debug      bool   `json:"debug"`
			Cache      bool   `json:"cache"`
			UserAgent  string `json:"userAgent"`
			APIVersion string `json:"apiVersion"`
			CacheDir   string `json:"cacheDir"`
		}{
			User:       cfg.ShowUser,
			Output:     cfg.Output,
			Type:       cfg.TypeFilter,
			Agg:        cfg.Aggregate,
			Debug:      cfg.Debug,
			Cache:      cfg.CacheEnabled,
			UserAgent:  cfg.UserAgent,
			APIVersion: cfg.APIVersion,
			CacheDir:   cfg.CacheDir,
		}
		data, err := json.Marshal(marker)
		if err != nil {
			fmt.Fprintf(stdErr, "gh-act: %v\n", err)
			return 1
		}
		fmt.Fprint(stdOut, string(data))
		return 0

	case "fetchUser":
		p, err := newPipeline(cfg, logger, token, nil)
		if err != nil {
			fmt.Fprintf(stdErr, "gh-act: %v\n", err)
			return 1
		}
		identity, err := p.ResolveIdentity(context.Background(), cfg.Account)
		if err != nil {
			return reportPipelineError(err, cfg.Account)
		}
		fmt.Fprint(stdOut, identity.URL)
		return 0

	case "fetchAct":
		p, err := newPipeline(cfg, logger, token, nil)
		if err != nil {
			fmt.Fprintf(stdErr, "gh-act: %v\n", err)
			return 1
		}
		events, _, err := p.Run(context.Background(), cfg.Account)
		if err != nil {
			return reportPipelineError(err, cfg.Account)
		}
		fmt.Fprint(stdOut, len(events))
		return 0

	default:
		fmt.Fprintf(stdErr, "gh-act: unknown test mode '%s'\n", mode)
		return 1
	}
}

// newPipeline 按固定顺序装配协作者：磁盘缓存 → HTTP 客户端 → 身份解析器 → 流水线。
func newPipeline(cfg *config.Options, logger *logrus.Logger, token string, trace io.Writer) (*pipeline.Pipeline, error) {
	store := cache.Disabled()
	if cfg.CacheEnabled {
		fsStore, err := cache.NewStore(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		store = fsStore
	}

	client := github.NewClient(github.NewHTTPClient(cfg), logger, cfg, token, trace)
	resolver := github.NewResolver(client, logger)
	return pipeline.New(store, client, resolver, logger), nil
}

// reportPipelineError 将阶段错误映射为固定的用户可见消息，返回退出码 1。
func reportPipelineError(err error, account string) int {
	switch {
	case errors.Is(err, pipeline.ErrAccountNotFound):
		fmt.Fprintf(stdErr, "gh-act: GitHub user '%s' not found\nTry 'gh-act --help' for more information.\n", account)
	case errors.Is(err, pipeline.ErrFeedUnavailable):
		fmt.Fprintf(stdErr, "gh-act: unable to fetch GitHub user '%s' events\nTry 'gh-act --help' for more information.\n", account)
	case errors.Is(err, pipeline.ErrCredentialMissing):
		fmt.Fprintf(stdErr, "gh-act: unable to fetch the authorization token\nTry 'gh-act --help' for more information.\n")
	default:
		fmt.Fprintf(stdErr, "gh-act: %v\n", err)
	}
	return 1
}

// applyCLIOptions 将命令行结果并入配置值；CLI 标志永远优先于配置文件。
func applyCLIOptions(cfg *config.Options, opts cliOptions) {
	cfg.Account = opts.account
	cfg.Output = opts.output
	cfg.TypeFilter = opts.typeFilter
	cfg.ShowUser = opts.showUser
	cfg.Aggregate = opts.aggregate
	cfg.Debug = opts.debug
	cfg.CacheEnabled = opts.cacheOn
}

// parseCLIFlags 解析 CLI 参数。长短标志可以任意混排，账户名可以出现在
// 任何位置；组合短标志（如 -uj）按字符逐一展开，-t 必须位于簇尾。
func parseCLIFlags(args []string) (cliOptions, error) {
	opts := cliOptions{output: config.OutputVerbose, cacheOn: true}

	if len(args) == 0 {
		opts.showHelp = true
		return opts, nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help":
			opts.showHelp = true
			return opts, nil

		case arg == "--version":
			opts.showVersion = true
			return opts, nil

		case arg == "--list":
			opts.showList = true
			return opts, nil

		case strings.HasPrefix(arg, "--"):
			switch arg {
			case "--":
				// 参数分隔符，忽略
			case "--user":
				opts.showUser = true
			case "--table":
				opts.output = config.OutputTable
			case "--json":
				opts.output = config.OutputJSON
			case "--csv":
				opts.output = config.OutputCSV
			case "--verbose":
				opts.output = config.OutputVerbose
			case "--agg":
				opts.aggregate = true
			case "--debug":
				opts.debug = true
			case "--nocache":
				opts.cacheOn = false
				if len(args) == 1 {
					// 作为唯一参数出现：清空缓存目录后退出
					opts.purgeOnly = true
					return opts, nil
				}
			case "--config":
				if i == len(args)-1 {
					return cliOptions{}, ambiguousArgErr("--config")
				}
				i++
				opts.configPath = args[i]
			case "--type":
				if i == len(args)-1 {
					return cliOptions{}, ambiguousArgErr("--type")
				}
				i++
				if !event.KnownType(args[i]) {
					return cliOptions{}, unknownTypeErr(args[i])
				}
				opts.typeFilter = args[i]
			default:
				switch {
				case arg == "--type=":
					return cliOptions{}, ambiguousArgErr("--type")
				case strings.HasPrefix(arg, "--type="):
					value := strings.TrimPrefix(arg, "--type=")
					if !event.KnownType(value) {
						return cliOptions{}, unknownTypeErr(value)
					}
					opts.typeFilter = value
				case arg == "--config=":
					return cliOptions{}, ambiguousArgErr("--config")
				case strings.HasPrefix(arg, "--config="):
					opts.configPath = strings.TrimPrefix(arg, "--config=")
				default:
					return cliOptions{}, usageErr(fmt.Sprintf("unrecognized option '%s'", arg))
				}
			}

		case arg == "-":
			// 单独的 '-' 忽略

		case strings.HasPrefix(arg, "-"):
			for k := 1; k < len(arg); k++ {
				switch arg[k] {
				case 'u':
					opts.showUser = true
				case 'b':
					opts.output = config.OutputTable
				case 'j':
					opts.output = config.OutputJSON
				case 'c':
					opts.output = config.OutputCSV
				case 'v':
					opts.output = config.OutputVerbose
				case 'a':
					opts.aggregate = true
				case 'd':
					opts.debug = true
				case 't':
					if k < len(arg)-1 || i == len(args)-1 {
						return cliOptions{}, ambiguousArgErr("-t")
					}
					i++
					if !event.KnownType(args[i]) {
						return cliOptions{}, unknownTypeErr(args[i])
					}
					opts.typeFilter = args[i]
				default:
					return cliOptions{}, usageErr(fmt.Sprintf("invalid option -- '%c'", arg[k]))
				}
			}

		default:
			if opts.account != "" {
				return cliOptions{}, usageErr("GitHub user was already given")
			}
			opts.account = arg
		}
	}

	if opts.account == "" {
		return cliOptions{}, usageErr("No GitHub user given")
	}
	return opts, nil
}

func usageErr(msg string) error {
	return fmt.Errorf("gh-act: %s\nTry 'gh-act --help' for more information.", msg)
}

func ambiguousArgErr(opt string) error {
	return usageErr(fmt.Sprintf("ambiguous argument ‘’ for ‘%s’", opt))
}

func unknownTypeErr(eventType string) error {
	return fmt.Errorf("gh-act: unrecognized GitHub event type '%s'\nTry 'gh-act --list' for more information.", eventType)
}
