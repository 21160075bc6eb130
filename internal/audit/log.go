package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GenesisHash is the prev_hash of the first entry in a new trail.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// Log is an append-only JSONL reconciliation trail with SHA-256 hash
// chaining. Each entry's prev_hash is the hash of the previous entry's
// JSON line, forming a tamper-evident record of what a run changed (or,
// in dry-run, planned to change) per bucket per control.
type Log struct {
	path string
	file *os.File
	prev string
	mu   sync.Mutex
}

// Open creates or reopens the trail at path. Reopening recovers the
// chain tail from the last line, so a new run extends the existing
// chain instead of restarting it.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("audit: create directory: %w", err)
	}

	prev, err := chainTail(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("audit: open trail: %w", err)
	}

	return &Log{path: path, file: file, prev: prev}, nil
}

// chainTail returns the hash the next entry must link to: the hash of
// the file's last line, or GenesisHash for a missing or empty file.
func chainTail(path string) (string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return GenesisHash, nil
	}
	if err != nil {
		return "", fmt.Errorf("audit: read trail: %w", err)
	}
	defer f.Close()

	var last []byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		// Scanner reuses its buffer; keep a copy of each line.
		last = append(last[:0], scanner.Bytes()...)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("audit: scan trail: %w", err)
	}
	if len(last) == 0 {
		return GenesisHash, nil
	}
	return HashLine(last), nil
}

// Record appends entry to the trail. PrevHash is always overwritten
// with the current chain tail; Timestamp is filled when empty. The
// line is synced to disk before the tail advances.
func (l *Log) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	}
	entry.PrevHash = l.prev

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: marshal entry: %w", err)
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("audit: write entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("audit: sync: %w", err)
	}

	l.prev = HashLine(line)
	return nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}
