package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/cache"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/event"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/github"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/logging"
)

// Pipeline orchestrate “读缓存 → 条件回源 → 调和 → 落盘或删除” 的全流程。
// 两个阶段严格串行：活动流请求依赖身份阶段解析出的 feed URL。
type Pipeline struct {
	store    cache.Store
	client   *github.Client
	resolver *github.Resolver
	logger   *logrus.Logger
}

// New 构造流水线。--nocache 运行注入 cache.Disabled()。
func New(store cache.Store, client *github.Client, resolver *github.Resolver, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		client:   client,
		resolver: resolver,
		logger:   logger,
	}
}

// Run 执行完整流水线：ResolveIdentity → FetchFeed。
// 事件序列保持远端给出的顺序（最新在前），零事件返回空切片而非 nil。
func (p *Pipeline) Run(ctx context.Context, account string) ([]event.Event, *github.Identity, error) {
	identity, err := p.ResolveIdentity(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	events, err := p.FetchFeed(ctx, identity)
	if err != nil {
		return nil, identity, err
	}
	return events, identity, nil
}

// ResolveIdentity 解析账户身份。缓存存在时携带其再验证标签做条件请求；
// 304 以缓存身份为准（原样使用，不回写）；决定性失败删除缓存并报
// ErrAccountNotFound；传输层失败在有缓存时回退缓存身份。
func (p *Pipeline) ResolveIdentity(ctx context.Context, account string) (*github.Identity, error) {
	key := cache.Key{Account: account, Kind: cache.KindIdentity}
	env := p.loadCached(ctx, key)

	etag := ""
	if env != nil {
		etag = env.ETag
	}

	res, err := p.resolver.Resolve(ctx, account, etag)
	switch {
	case err == nil:
		// 下面继续调和
	case errors.Is(err, github.ErrUnknownAccount):
		if env != nil {
			p.evict(ctx, key)
		}
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	default:
		// 传输层失败：有缓存则离线降级
		if env != nil {
			p.logOfflineFallback(account, cache.KindIdentity, err)
			if identity, parseErr := github.ParseIdentity("", account, env.Data); parseErr == nil {
				return identity, nil
			}
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrAccountNotFound, account, err)
	}

	if res.Result.Outcome == github.OutcomeNotModified {
		// 条件请求只在缓存存在时发出，此处 env 必然非空
		if env == nil {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
		}
		identity, parseErr := github.ParseIdentity(res.Kind, account, env.Data)
		if parseErr != nil {
			// 缓存身份缺少规范 URL：按缓存损坏处理，删除后报错
			p.evict(ctx, key)
			return nil, fmt.Errorf("%w: %s: %v", ErrAccountNotFound, account, parseErr)
		}
		return identity, nil
	}

	identity, parseErr := github.ParseIdentity(res.Kind, account, res.Result.Body)
	if parseErr != nil {
		// 新载荷缺少规范 URL 等标志字段：以缓存身份为准
		if env != nil {
			if cached, cacheErr := github.ParseIdentity("", account, env.Data); cacheErr == nil {
				return cached, nil
			}
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrAccountNotFound, account, parseErr)
	}

	p.persist(ctx, key, &cache.Envelope{ETag: res.Result.ETag, Data: res.Result.Body})
	return identity, nil
}

// FetchFeed 拉取身份对应的活动流。Fresh 且为合法数组 → 落盘并使用；
// 304 或非数组载荷 → 使用缓存；决定性失败 → 删除缓存并报错；
// 传输层失败 → 有缓存则离线降级。
func (p *Pipeline) FetchFeed(ctx context.Context, identity *github.Identity) ([]event.Event, error) {
	if identity == nil || identity.FeedURL == "" {
		return nil, fmt.Errorf("%w: missing feed url", ErrFeedUnavailable)
	}

	account := identity.AccountName
	key := cache.Key{Account: account, Kind: cache.KindEvents}
	env := p.loadCached(ctx, key)

	etag := ""
	if env != nil {
		etag = env.ETag
	}

	result, err := p.client.Fetch(ctx, identity.FeedURL, etag)
	if err != nil {
		if env != nil {
			p.logOfflineFallback(account, cache.KindEvents, err)
			if events, decodeErr := decodeEvents(env.Data); decodeErr == nil {
				return events, nil
			}
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrFeedUnavailable, account, err)
	}

	switch result.Outcome {
	case github.OutcomeNotModified:
		if env == nil {
			return nil, fmt.Errorf("%w: %s", ErrFeedUnavailable, account)
		}
		events, decodeErr := decodeEvents(env.Data)
		if decodeErr != nil {
			// 缓存载荷不是事件数组：按缓存损坏处理，删除后报错
			p.evict(ctx, key)
			return nil, fmt.Errorf("%w: %s: %v", ErrFeedUnavailable, account, decodeErr)
		}
		return events, nil

	case github.OutcomeFresh:
		events, decodeErr := decodeEvents(result.Body)
		if decodeErr != nil {
			// 载荷不是事件数组：视同未变更，沿用缓存
			if env != nil {
				if cached, cacheErr := decodeEvents(env.Data); cacheErr == nil {
					return cached, nil
				}
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrFeedUnavailable, account, decodeErr)
		}
		p.persist(ctx, key, &cache.Envelope{ETag: result.ETag, Data: result.Body})
		return events, nil

	default: // OutcomeFailure
		if env != nil {
			p.evict(ctx, key)
		}
		return nil, fmt.Errorf("%w: %s (status %d)", ErrFeedUnavailable, account, result.Status)
	}
}

// loadCached 读取缓存条目；缺失与损坏都按无缓存处理，损坏仅记日志。
func (p *Pipeline) loadCached(ctx context.Context, key cache.Key) *cache.Envelope {
	env, err := p.store.Load(ctx, key)
	if err == nil {
		return env
	}
	if errors.Is(err, cache.ErrCorrupt) {
		fields := logging.BaseFields("cache_load", key.Account)
		fields["kind"] = string(key.Kind)
		p.logger.WithError(err).WithFields(fields).Warn("cache_corrupt_recovered")
	} else if !errors.Is(err, cache.ErrNotFound) {
		p.logger.WithError(err).WithFields(logging.BaseFields("cache_load", key.Account)).Warn("cache_load_failed")
	}
	return nil
}

func (p *Pipeline) persist(ctx context.Context, key cache.Key, env *cache.Envelope) {
	if err := p.store.Save(ctx, key, env); err != nil {
		fields := logging.BaseFields("cache_save", key.Account)
		fields["kind"] = string(key.Kind)
		p.logger.WithError(err).WithFields(fields).Warn("cache_save_failed")
	}
}

func (p *Pipeline) evict(ctx context.Context, key cache.Key) {
	if err := p.store.Evict(ctx, key); err != nil {
		fields := logging.BaseFields("cache_evict", key.Account)
		fields["kind"] = string(key.Kind)
		p.logger.WithError(err).WithFields(fields).Warn("cache_evict_failed")
	}
}

func (p *Pipeline) logOfflineFallback(account string, kind cache.Kind, cause error) {
	fields := logging.BaseFields("offline_fallback", account)
	fields["kind"] = string(kind)
	p.logger.WithError(cause).WithFields(fields).Warn("serving_cached_payload")
}

// decodeEvents 将原始载荷解析为事件序列；载荷必须是 JSON 数组。
func decodeEvents(raw json.RawMessage) ([]event.Event, error) {
	var events []event.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode events payload: %w", err)
	}
	if events == nil {
		events = []event.Event{}
	}
	return events, nil
}
