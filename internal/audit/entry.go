package audit

// Controls recorded in the trail.
const (
	ControlTransportDeny = "transport_deny"
	ControlAccessLogging = "access_logging"
)

// Actions recorded per entry.
const (
	// ActionNone: the bucket was already compliant, nothing written.
	ActionNone = "none"
	// ActionWrite: a configuration write was performed.
	ActionWrite = "write"
	// ActionPlanned: dry-run computed a change without writing it.
	ActionPlanned = "planned"
	// ActionFailed: the reconciliation attempt failed.
	ActionFailed = "failed"
)

// Entry is one line in the hash-chained JSONL reconciliation trail.
// All fields are scalars (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp string `json:"ts"`
	RunID     string `json:"run_id"`
	Bucket    string `json:"bucket"`
	Control   string `json:"control"`
	Status    string `json:"status"`
	Action    string `json:"action"`
	Mode      string `json:"mode"`
	PrevHash  string `json:"prev_hash"`
}
