// README: Key-value slot backends (Redis, Postgres, Firebase RTDB, memory) for small blobs.
package themestore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"firebase.google.com/go/v4/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// KV is a durable string-keyed slot store scoped by namespace.
// Get reports found=false for a missing slot rather than an error.
type KV interface {
	Get(ctx context.Context, namespace, key string) (value string, found bool, err error)
	Set(ctx context.Context, namespace, key, value string) error
}

// MemoryKV keeps slots in process memory.
type MemoryKV struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{slots: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, namespace, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[slotKey(namespace, key)]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slotKey(namespace, key)] = value
	return nil
}

// RedisKV stores each slot as a plain string key "<namespace>:<key>".
type RedisKV struct {
	redis *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{redis: client}
}

func (r *RedisKV) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	val, err := r.redis.Get(ctx, slotKey(namespace, key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisKV) Set(ctx context.Context, namespace, key, value string) error {
	return r.redis.Set(ctx, slotKey(namespace, key), value, 0).Err()
}

// PostgresKV stores slots in the kv_slots table (see migrations/0002_kv_slots.sql).
type PostgresKV struct {
	db *pgxpool.Pool
}

func NewPostgresKV(db *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{db: db}
}

func (p *PostgresKV) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRow(ctx, `
		SELECT value FROM kv_slots
		WHERE namespace = $1 AND key = $2`, namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresKV) Set(ctx context.Context, namespace, key, value string) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO kv_slots (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`,
		namespace, key, value,
	)
	return err
}

// FirebaseKV stores slots in the Realtime Database under /<namespace>/<key>.
type FirebaseKV struct {
	client *db.Client
}

func NewFirebaseKV(client *db.Client) *FirebaseKV {
	return &FirebaseKV{client: client}
}

func (f *FirebaseKV) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var value *string
	if err := f.client.NewRef(namespace).Child(key).Get(ctx, &value); err != nil {
		return "", false, fmt.Errorf("reading rtdb slot %s/%s: %w", namespace, key, err)
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (f *FirebaseKV) Set(ctx context.Context, namespace, key, value string) error {
	if err := f.client.NewRef(namespace).Child(key).Set(ctx, value); err != nil {
		return fmt.Errorf("writing rtdb slot %s/%s: %w", namespace, key, err)
	}
	return nil
}

func slotKey(namespace, key string) string {
	return namespace + ":" + key
}
