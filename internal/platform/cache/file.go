package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

const DefaultDir = "cache_api_sports"

var errCorruptRecord = crerr.New("corrupt cache record")

// fileRecord is the on-disk layout. Readers also accept records from older
// writers that only carry "ts" or "timestamp" as float unix seconds.
type fileRecord struct {
	TS        *float64        `json:"ts,omitempty"`
	TSNanos   *int64          `json:"ts_ns,omitempty"`
	Timestamp *float64        `json:"timestamp,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// FileBackend stores one JSON file per key under dir.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create cache dir %s", dir)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) Load(_ context.Context, key string) (Entry, error) {
	raw, err := os.ReadFile(b.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, crerr.Wrap(err, "read cache file")
	}

	var rec fileRecord
	if err := sonic.Unmarshal(raw, &rec); err != nil {
		return Entry{}, crerr.Mark(crerr.Wrap(err, "decode cache file"), errCorruptRecord)
	}
	if len(rec.Data) == 0 || bytes.Equal(rec.Data, jsonNull) {
		return Entry{}, crerr.Wrap(errCorruptRecord, "missing data")
	}

	storedAt, ok := rec.storedAt()
	if !ok {
		return Entry{}, crerr.Wrap(errCorruptRecord, "missing timestamp")
	}

	return Entry{
		Key:      key,
		StoredAt: storedAt,
		Payload:  []byte(rec.Data),
	}, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never observe a partial record.
func (b *FileBackend) Save(_ context.Context, entry Entry) error {
	if err := checkPayload(entry.Payload); err != nil {
		return crerr.Wrapf(err, "save %q", entry.Key)
	}

	raw, err := encodeFileRecord(entry)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, ".tmp-*")
	if err != nil {
		return crerr.Wrap(err, "create temp cache file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return crerr.Wrap(err, "write temp cache file")
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrap(err, "close temp cache file")
	}
	if err := os.Rename(tmpName, b.path(entry.Key)); err != nil {
		return crerr.Wrap(err, "rename cache file")
	}
	return nil
}

// encodeFileRecord splices the payload in verbatim after the timestamp
// fields. Running it through the encoder would compact it.
func encodeFileRecord(entry Entry) ([]byte, error) {
	nanos := entry.StoredAt.UnixNano()
	secs := float64(nanos) / float64(time.Second)
	head, err := sonic.Marshal(fileRecord{TS: &secs, TSNanos: &nanos})
	if err != nil {
		return nil, crerr.Wrap(err, "encode cache record")
	}

	payload := bytes.TrimSpace(entry.Payload)
	raw := make([]byte, 0, len(head)+len(payload)+len(`,"data":}`))
	raw = append(raw, head[:len(head)-1]...)
	raw = append(raw, `,"data":`...)
	raw = append(raw, payload...)
	return append(raw, '}'), nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (r fileRecord) storedAt() (time.Time, bool) {
	if r.TSNanos != nil {
		return time.Unix(0, *r.TSNanos), true
	}
	if r.TS != nil {
		return unixFloat(*r.TS)
	}
	if r.Timestamp != nil {
		return unixFloat(*r.Timestamp)
	}
	return time.Time{}, false
}

func unixFloat(secs float64) (time.Time, bool) {
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 {
		return time.Time{}, false
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))), true
}
