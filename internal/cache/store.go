package cache

import (
	"context"
	"encoding/json"
	"errors"
)

// Kind 区分同一账户下的两类缓存资源。
type Kind string

const (
	// KindIdentity 对应 <account>.user.json，身份载荷（对象）。
	KindIdentity Kind = "user"
	// KindEvents 对应 <account>.events.json，活动流载荷（数组）。
	KindEvents Kind = "events"
)

// Key 唯一定位一个缓存条目（账户名 + 资源类别）。
type Key struct {
	Account string
	Kind    Kind
}

// Envelope 将载荷与再验证标签显式分离，元数据不再混入载荷本身。
// Data 保持远端返回的原始 JSON，读取方自行决定解析深度。
type Envelope struct {
	ETag string          `json:"etag,omitempty"`
	Data json.RawMessage `json:"data"`
}

// Store 负责管理磁盘缓存的读写。进程间不保留内存索引，
// 每次运行都从磁盘重新读取。
type Store interface {
	// Load 返回缓存条目。缺失返回 ErrNotFound，无法解析返回 ErrCorrupt，
	// 两者对调用方都等价于缓存不存在。
	Load(ctx context.Context, key Key) (*Envelope, error)

	// Save 覆盖写入条目。实现需通过临时文件 + rename 保证写入原子性，
	// 并在失败时清理临时文件。
	Save(ctx context.Context, key Key, env *Envelope) error

	// Evict 删除条目，用于远端确认资源已不存在的场景。缺失不算错误。
	Evict(ctx context.Context, key Key) error

	// PurgeAll 删除整个缓存目录，对应 --nocache 的清空操作。
	PurgeAll() error
}

// ErrNotFound 表示缓存不存在。
var ErrNotFound = errors.New("cache entry not found")

// ErrCorrupt 表示缓存文件存在但无法解析，按缓存缺失静默恢复。
var ErrCorrupt = errors.New("cache entry corrupt")

// IsMiss 判断 Load 的错误是否应当按“无缓存”处理。
func IsMiss(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt)
}

// Disabled 返回一个空操作 Store，--nocache 运行时注入，
// 使流水线无条件回源且不落盘。
func Disabled() Store {
	return disabledStore{}
}

type disabledStore struct{}

func (disabledStore) Load(context.Context, Key) (*Envelope, error) { return nil, ErrNotFound }
func (disabledStore) Save(context.Context, Key, *Envelope) error   { return nil }
func (disabledStore) Evict(context.Context, Key) error             { return nil }
func (disabledStore) PurgeAll() error                              { return nil }
