package ai

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

func TestEntityTypeFromLabel(t *testing.T) {
	cases := map[string]intent.EntityType{
		"address":  intent.EntityAddress,
		"City":     intent.EntityAddress,
		" GPE ":    intent.EntityAddress,
		"LOC":      intent.EntityAddress,
		"FAC":      intent.EntityAddress,
		"country":  intent.EntityAddress,
		"PERSON":   intent.EntityOther,
		"duration": intent.EntityOther,
		"":         intent.EntityOther,
	}
	for label, want := range cases {
		if got := entityTypeFromLabel(label); got != want {
			t.Errorf("entityTypeFromLabel(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestCleanJSONString(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"```json\n{\"entities\":[]}\n```", `{"entities":[]}`},
		{"```{\"a\":1}```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := cleanJSONString(tc.in); got != tc.want {
			t.Errorf("cleanJSONString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeEntityResponse(t *testing.T) {
	raw := "```json\n" + `{"entities":[
		{"text":"five days","types":["duration"]},
		{"text":"","types":["address"]},
		{"text":"Kyoto","types":["city","person"]}
	]}` + "\n```"

	got, err := decodeEntityResponse(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []intent.Annotation{
		{Text: "five days", Types: []intent.EntityType{intent.EntityOther}},
		{Text: "Kyoto", Types: []intent.EntityType{intent.EntityAddress, intent.EntityOther}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeEntityResponse_Malformed(t *testing.T) {
	if _, err := decodeEntityResponse("I think the city is Rome"); err == nil {
		t.Fatalf("expected error for non-JSON response")
	}
}

type countingExtractor struct {
	calls int
	err   error
	out   []intent.Annotation
}

func (c *countingExtractor) EnsureModelReady(context.Context) error { return nil }

func (c *countingExtractor) Extract(context.Context, string) ([]intent.Annotation, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.out, nil
}

func TestCachingExtractor_HitAndExpiry(t *testing.T) {
	next := &countingExtractor{out: []intent.Annotation{{Text: "Rome", Types: []intent.EntityType{intent.EntityAddress}}}}
	cache := NewCachingExtractor(next, time.Minute, nil)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cache.Extract(ctx, "  Rome for 3 days ")
		if err != nil || len(got) != 1 || got[0].Text != "Rome" {
			t.Fatalf("call %d: got %+v, %v", i, got, err)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", next.calls)
	}

	now = now.Add(time.Minute)
	if _, err := cache.Extract(ctx, "Rome for 3 days"); err != nil {
		t.Fatalf("extract after expiry: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("expected expired entry to be refetched, calls=%d", next.calls)
	}
}

func TestCachingExtractor_EvictionKeepsFreshEntry(t *testing.T) {
	cache := NewCachingExtractor(&countingExtractor{}, time.Minute, nil)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := start.Add(2 * time.Minute)
	fresh := []intent.Annotation{{Text: "Oslo"}}

	now := start
	cache.now = func() time.Time { return now }
	cache.set("Oslo", []intent.Annotation{{Text: "stale"}})

	// Another writer refreshes the key between the expiry check and the eviction.
	raced := false
	cache.now = func() time.Time {
		if !raced {
			raced = true
			cache.set("Oslo", fresh)
		}
		return later
	}
	if _, ok := cache.get("Oslo"); ok {
		t.Fatalf("stale entry should miss")
	}

	got, ok := cache.get("Oslo")
	if !ok || !reflect.DeepEqual(got, fresh) {
		t.Fatalf("fresh entry evicted: got %+v ok=%v", got, ok)
	}
}

func TestCachingExtractor_ErrorsNotCached(t *testing.T) {
	next := &countingExtractor{err: errors.New("quota exceeded")}
	cache := NewCachingExtractor(next, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cache.Extract(ctx, "Rome"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if next.calls != 2 || cache.Len() != 0 {
		t.Fatalf("errors must not be cached: calls=%d len=%d", next.calls, cache.Len())
	}
}

func TestCachingExtractor_ReturnsCopies(t *testing.T) {
	next := &countingExtractor{out: []intent.Annotation{{Text: "Oslo", Types: []intent.EntityType{intent.EntityAddress}}}}
	cache := NewCachingExtractor(next, time.Hour, nil)
	ctx := context.Background()

	first, _ := cache.Extract(ctx, "Oslo")
	first[0].Text = "mutated"
	first[0].Types[0] = intent.EntityOther

	second, _ := cache.Extract(ctx, "Oslo")
	if second[0].Text != "Oslo" || second[0].Types[0] != intent.EntityAddress {
		t.Fatalf("cached entry was mutated through a returned slice: %+v", second)
	}
}
