// pkg/dedup/store.go
package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable 去重存储不可用
// 调用方必须把它当作当前周期的致命错误，绝不能当作"不是重复"继续处理
var ErrStoreUnavailable = errors.New("去重存储不可用")

// 跨进程共享状态的固定键，监控进程和API进程各自读写
const (
	// KeyWatchlist API进程维护的共享自选清单（集合）
	KeyWatchlist = "watchlist:custom"
	// KeySourceHealth 监控进程每轮写入的来源健康快照（JSON）
	KeySourceHealth = "health:sources"
	// QueueFailedExtraction 提取失败公告的重查队列
	QueueFailedExtraction = "failed:extraction"
)

// Store 基于Redis的去重存储和工作队列
// exists/setex/lpush在存储层原子，管道不在其上再加锁
type Store struct {
	client *redis.Client
}

// NewStore 创建去重存储
func NewStore(redisURL string) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("解析Redis URL失败: %w", err)
	}

	return &Store{client: redis.NewClient(opt)}, nil
}

// Ping 检查连接
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Exists 检查去重键是否存在，存在表示已处理过
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// SetWithTTL 标记已处理，带TTL
// TTL是有界缓存不是永久历史，过期后同一披露理论上可能重新进入管道，
// 这是换取有界存储的取舍
func (s *Store) SetWithTTL(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.SetEx(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// SetValue 写入带TTL的缓存值
func (s *Store) SetValue(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.SetEx(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Push 把序列化记录推入工作队列
func (s *Store) Push(ctx context.Context, queue string, payload []byte) error {
	if err := s.client.LPush(ctx, queue, payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// AddToSet 添加集合成员
func (s *Store) AddToSet(ctx context.Context, key, member string) error {
	if err := s.client.SAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// RemoveFromSet 移除集合成员
func (s *Store) RemoveFromSet(ctx context.Context, key, member string) error {
	if err := s.client.SRem(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// SetMembers 读取集合全部成员，键不存在时返回空列表
func (s *Store) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return members, nil
}

// Get 读取缓存值，键不存在时返回空串且无错误
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return val, nil
}

// Close 关闭连接
func (s *Store) Close() error {
	return s.client.Close()
}
