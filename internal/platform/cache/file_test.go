package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFileBackend_RoundTripAcrossRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	storedAt := time.Date(2024, time.May, 1, 12, 0, 0, 123456789, time.UTC)

	first, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	store := NewStore(first, StoreOptions{Now: func() time.Time { return storedAt }})
	payload := []byte(`{"response":[{"fixture":{"id":1}}]}`)
	store.Put(ctx, "predictions_fixture=1", payload)

	reopened, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("reopen file backend: %v", err)
	}
	entry, err := reopened.Load(ctx, "predictions_fixture=1")
	if err != nil {
		t.Fatalf("load after restart: %v", err)
	}
	if string(entry.Payload) != string(payload) {
		t.Fatalf("expected byte-identical payload, got %s", entry.Payload)
	}
	if !entry.StoredAt.Equal(storedAt) {
		t.Fatalf("expected stored_at %s, got %s", storedAt, entry.StoredAt)
	}
}

// payloadRoundTrips must come back from every backend byte for byte.
var payloadRoundTrips = map[string]string{
	"empty object":     `{}`,
	"empty array":      `[]`,
	"nested empties":   `{"response":[],"errors":{},"paging":{"current":1,"total":1},"parameters":[[],{}]}`,
	"inner whitespace": "{ \"response\" : [ 1 ,\n\t2 ] ,\r\n \"errors\" : { } }",
	"non-ascii":        `{"team":"Atlético Madrid","venue":"Estádio do Dragão","city":"München","note":"⚽ 東京"}`,
	"escaped unicode":  `{"name":"Atl\u00e9tico","html":"<b>&amp;</b>","slash":"a\/b"}`,
	"bare string":      `"FT"`,
	"number precision": `{"odds":1.1000000000000001,"big":12345678901234567890}`,
}

var rejectedPayloads = map[string]string{
	"null":        `null`,
	"padded null": " null\n",
	"empty":       ``,
	"html":        `<html>`,
	"truncated":   `{"response":[`,
}

func TestFileBackend_PayloadRoundTrip(t *testing.T) {
	t.Parallel()

	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	assertPayloadRoundTrips(t, backend)
}

func assertPayloadRoundTrips(t *testing.T, backend Backend) {
	t.Helper()

	ctx := context.Background()
	storedAt := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	for name, payload := range payloadRoundTrips {
		key := "round_trip_" + strings.ReplaceAll(name, " ", "_")
		if err := backend.Save(ctx, Entry{Key: key, StoredAt: storedAt, Payload: []byte(payload)}); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		entry, err := backend.Load(ctx, key)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if string(entry.Payload) != payload {
			t.Fatalf("%s: expected %q, got %q", name, payload, entry.Payload)
		}
		if !entry.StoredAt.Equal(storedAt) {
			t.Fatalf("%s: expected stored_at %s, got %s", name, storedAt, entry.StoredAt)
		}
	}
}

func assertPayloadsRejected(t *testing.T, backend Backend) {
	t.Helper()

	ctx := context.Background()
	for name, payload := range rejectedPayloads {
		key := "rejected_" + strings.ReplaceAll(name, " ", "_")
		err := backend.Save(ctx, Entry{Key: key, StoredAt: time.Now(), Payload: []byte(payload)})
		if !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("%s: expected ErrInvalidPayload, got %v", name, err)
		}
		if _, err := backend.Load(ctx, key); !errors.Is(err, ErrEntryNotFound) {
			t.Fatalf("%s: expected nothing stored, got %v", name, err)
		}
	}
}

func TestFileBackend_ReadsLegacyRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}

	cases := map[string]string{
		"leagues":  `{"ts": 1714564800.5, "data": {"response": []}}`,
		"old_data": `{"timestamp": 1714564800, "data": [1, 2]}`,
	}
	for key, body := range cases {
		if err := os.WriteFile(filepath.Join(dir, key+".json"), []byte(body), 0o644); err != nil {
			t.Fatalf("write legacy record: %v", err)
		}
	}

	entry, err := backend.Load(context.Background(), "leagues")
	if err != nil {
		t.Fatalf("load ts record: %v", err)
	}
	want := time.Unix(1714564800, 500_000_000)
	if !entry.StoredAt.Equal(want) {
		t.Fatalf("expected %s, got %s", want, entry.StoredAt)
	}
	if string(entry.Payload) != `{"response": []}` {
		t.Fatalf("unexpected payload %s", entry.Payload)
	}

	entry, err = backend.Load(context.Background(), "old_data")
	if err != nil {
		t.Fatalf("load timestamp record: %v", err)
	}
	if !entry.StoredAt.Equal(time.Unix(1714564800, 0)) {
		t.Fatalf("unexpected legacy timestamp %s", entry.StoredAt)
	}
}

func TestFileBackend_CorruptRecordIsAbsent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	for key, body := range map[string]string{
		"garbage":   `{not json`,
		"no_ts":     `{"data": {}}`,
		"null_data": `{"ts": 1, "data": null}`,
	} {
		if err := os.WriteFile(filepath.Join(dir, key+".json"), []byte(body), 0o644); err != nil {
			t.Fatalf("write record: %v", err)
		}
	}

	observer := &countingObserver{}
	store := NewStore(backend, StoreOptions{Observer: observer})
	for _, key := range []string{"garbage", "no_ts", "null_data"} {
		if _, ok := store.GetStale(context.Background(), key); ok {
			t.Fatalf("expected corrupt record %s to be absent", key)
		}
	}
	if got := observer.loads.Load(); got != 3 {
		t.Fatalf("expected 3 load errors, got=%d", got)
	}
	if _, ok := store.GetStale(context.Background(), "missing"); ok {
		t.Fatalf("expected missing record to be absent")
	}
}

func TestFileBackend_RejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	assertPayloadsRejected(t, backend)
}

func TestMemoryBackend_PayloadRules(t *testing.T) {
	t.Parallel()

	assertPayloadRoundTrips(t, NewMemoryBackend())
	assertPayloadsRejected(t, NewMemoryBackend())
}

func TestFileBackend_ConcurrentSameKeyLastWriteWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	store := NewStore(backend, StoreOptions{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Put(ctx, "same", []byte(`{"writer":`+string(rune('0'+i%10))+`}`))
		}(i)
	}
	wg.Wait()

	entry, ok := store.GetStale(ctx, "same")
	if !ok {
		t.Fatalf("expected a complete record after concurrent writes")
	}
	if len(entry.Payload) != len(`{"writer":0}`) {
		t.Fatalf("expected one whole payload, got %s", entry.Payload)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	if len(leftovers) != 0 {
		t.Fatalf("expected temp files to be cleaned up, got %v", leftovers)
	}
}
