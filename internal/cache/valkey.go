// Package cache wraps the Valkey client used for open-day list caching and
// capacity snapshots.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	openDayListKey      = "opendays:list"
	capacitySnapshotKey = "opendays:capacity"
)

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &ValkeyClient{client: rdb, ttl: ttl}, nil
}

// GetOpenDayListRaw returns the cached unfiltered open-day list as raw JSON,
// avoiding an unmarshal/marshal round trip on the hot path.
func (v *ValkeyClient) GetOpenDayListRaw(ctx context.Context) ([]byte, error) {
	data, err := v.client.Get(ctx, openDayListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("open day list not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetOpenDayList stores the unfiltered open-day list response.
func (v *ValkeyClient) SetOpenDayList(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal open day list: %w", err)
	}
	return v.client.Set(ctx, openDayListKey, data, v.ttl).Err()
}

// InvalidateOpenDays drops the cached list after any mutation that changes
// open days or their registration counts.
func (v *ValkeyClient) InvalidateOpenDays(ctx context.Context) error {
	return v.client.Del(ctx, openDayListKey).Err()
}

// SetCapacitySnapshot stores per-open-day active registration counts in a
// hash, written by the consumers' snapshot job.
func (v *ValkeyClient) SetCapacitySnapshot(ctx context.Context, counts map[int64]int) error {
	fields := make(map[string]interface{}, len(counts))
	for jpoID, count := range counts {
		fields[strconv.FormatInt(jpoID, 10)] = count
	}
	if len(fields) == 0 {
		return nil
	}
	return v.client.HSet(ctx, capacitySnapshotKey, fields).Err()
}

// GetCapacitySnapshot reads one open day's snapshot count.
func (v *ValkeyClient) GetCapacitySnapshot(ctx context.Context, jpoID int64) (int, error) {
	val, err := v.client.HGet(ctx, capacitySnapshotKey, strconv.FormatInt(jpoID, 10)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("no snapshot for open day %d", jpoID)
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}
	return strconv.Atoi(val)
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
