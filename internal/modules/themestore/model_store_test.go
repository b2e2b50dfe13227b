package themestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

// failingKV is a test double whose calls always fail.
type failingKV struct {
	err  error
	sets int
}

func (f *failingKV) Get(context.Context, string, string) (string, bool, error) {
	return "", false, f.err
}

func (f *failingKV) Set(context.Context, string, string, string) error {
	f.sets++
	return f.err
}

func TestModelStore_MissingSlotIsEmpty(t *testing.T) {
	s := NewModelStore(NewMemoryKV(), nil)
	m, err := s.Load(context.Background())
	if err != nil || !m.IsEmpty() {
		t.Fatalf("expected empty model, got %+v err=%v", m, err)
	}
}

func TestModelStore_SaveThenLoad(t *testing.T) {
	kv := NewMemoryKV()
	s := NewModelStore(kv, nil)
	ctx := context.Background()

	seed := intent.BootstrapThemeData()
	s.Save(ctx, seed)

	raw, found, _ := kv.Get(ctx, "ml_prefs", "data")
	if !found || !strings.Contains(raw, `"themeWordFrequency"`) {
		t.Fatalf("expected JSON blob under ml_prefs/data, got %q", raw)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, seed) {
		t.Fatalf("loaded model differs from saved seed")
	}
}

func TestModelStore_CorruptDataIsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	_ = kv.Set(ctx, Namespace, DataKey, `{"themeWordFrequency": [1,2`)

	m, err := NewModelStore(kv, nil).Load(ctx)
	if err != nil || !m.IsEmpty() {
		t.Fatalf("expected empty model for corrupt blob, err=%v", err)
	}
}

func TestModelStore_ReadErrorIsReported(t *testing.T) {
	cause := errors.New("connection refused")
	s := NewModelStore(&failingKV{err: cause}, nil)
	if _, err := s.Load(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("expected read error to surface, got %v", err)
	}
}

// flakyKV fails the first Get, then behaves like the wrapped store.
type flakyKV struct {
	KV
	failed bool
}

func (f *flakyKV) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	if !f.failed {
		f.failed = true
		return "", false, errors.New("i/o timeout")
	}
	return f.KV.Get(ctx, namespace, key)
}

func TestModelStore_TransientReadKeepsLearnedModel(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryKV()
	learned := &intent.LearnedThemeData{
		ThemeWordFrequency: map[string]map[string]int{"ski": {"snow": 3}},
	}
	NewModelStore(mem, nil).Save(ctx, learned)
	before, _, _ := mem.Get(ctx, Namespace, DataKey)

	if _, err := intent.NewParser(ctx, readyExtractor{}, NewModelStore(&flakyKV{KV: mem}, nil), "Unknown", nil); err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	after, _, _ := mem.Get(ctx, Namespace, DataKey)
	if after != before {
		t.Fatalf("slot overwritten after read failure: %q", after)
	}
}

func TestModelStore_SaveErrorIsSwallowed(t *testing.T) {
	kv := &failingKV{err: errors.New("read only")}
	NewModelStore(kv, nil).Save(context.Background(), intent.BootstrapThemeData())
	if kv.sets != 1 {
		t.Fatalf("expected one write attempt, got %d", kv.sets)
	}
}

func TestModelStore_BootstrapAcrossParsers(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := intent.NewParser(ctx, readyExtractor{}, NewModelStore(kv, nil), "Unknown", nil)
		if err != nil {
			t.Fatalf("parser %d: %v", i, err)
		}
		if !reflect.DeepEqual(p.Model(), intent.BootstrapThemeData()) {
			t.Fatalf("parser %d model differs from seed", i)
		}
	}
}

type readyExtractor struct{}

func (readyExtractor) EnsureModelReady(context.Context) error { return nil }

func (readyExtractor) Extract(context.Context, string) ([]intent.Annotation, error) {
	return nil, nil
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("PLANZY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PLANZY_TEST_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	ns := "ml_prefs_test"
	defer rdb.Del(ctx, slotKey(ns, DataKey))

	exerciseKV(t, NewRedisKV(rdb), ns)
}

func TestPostgresKV(t *testing.T) {
	dsn := os.Getenv("PLANZY_TEST_DSN")
	if dsn == "" {
		t.Skip("PLANZY_TEST_DSN not set; skipping DB-backed tests")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db, "0002_kv_slots.sql"); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "DELETE FROM kv_slots WHERE namespace = 'ml_prefs_test'"); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	exerciseKV(t, NewPostgresKV(db), "ml_prefs_test")
}

func exerciseKV(t *testing.T, kv KV, ns string) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := kv.Get(ctx, ns, DataKey); err != nil || found {
		t.Fatalf("expected missing slot, found=%v err=%v", found, err)
	}
	if err := kv.Set(ctx, ns, DataKey, "first"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, ns, DataKey, "second"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, found, err := kv.Get(ctx, ns, DataKey)
	if err != nil || !found || v != "second" {
		t.Fatalf("got (%q, %v, %v), want second", v, found, err)
	}
}

func applyMigration(ctx context.Context, db *pgxpool.Pool, name string) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", name))
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(content))
	return err
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
