package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// NewStore 以 basePath 为根目录构建磁盘缓存，整个进程复用一份实例。
// 目录不存在时创建，已存在不算错误。
func NewStore(basePath string) (Store, error) {
	if basePath == "" {
		return nil, errors.New("cache path required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve cache path: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create cache path: %w", err)
	}

	return &fileStore{basePath: abs}, nil
}

// fileStore 不持有任何跨条目的内存状态；流水线严格串行，
// 写入原子性由临时文件 + rename 保证。
type fileStore struct {
	basePath string
}

func (s *fileStore) Load(ctx context.Context, key Key) (*Envelope, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	filePath, err := s.entryPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrCorrupt)
	}
	return &env, nil
}

func (s *fileStore) Save(ctx context.Context, key Key, env *Envelope) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	filePath, err := s.entryPath(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(filePath), ".cache-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(data)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, filePath); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}

func (s *fileStore) Evict(ctx context.Context, key Key) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	filePath, err := s.entryPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *fileStore) PurgeAll() error {
	return os.RemoveAll(s.basePath)
}

// entryPath 拼接条目文件路径，拒绝会逃出缓存目录的账户名。
func (s *fileStore) entryPath(key Key) (string, error) {
	if key.Account == "" {
		return "", errors.New("account required")
	}
	if key.Kind != KindIdentity && key.Kind != KindEvents {
		return "", fmt.Errorf("unknown cache kind: %s", key.Kind)
	}
	if strings.ContainsAny(key.Account, `/\`) || key.Account == "." || key.Account == ".." {
		return "", fmt.Errorf("invalid account name: %s", key.Account)
	}
	return filepath.Join(s.basePath, key.Account+"."+string(key.Kind)+".json"), nil
}
