package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult is the outcome of walking a trail's hash chain.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Lines     int    `json:"lines"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

// Verify walks the JSONL trail at path and checks that every entry's
// prev_hash links to the line before it, starting from GenesisHash.
// It reports the first broken link.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	want := GenesisHash
	line := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line++

		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return VerifyResult{
				Error:     fmt.Sprintf("parse error: %v", err),
				ErrorLine: line,
			}
		}
		if entry.PrevHash != want {
			return VerifyResult{
				Error:     fmt.Sprintf("hash mismatch: expected %s, got %s", want, entry.PrevHash),
				ErrorLine: line,
			}
		}
		want = HashLine(scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		return VerifyResult{Error: fmt.Sprintf("scan: %v", err)}
	}

	return VerifyResult{Valid: true, Lines: line}
}
