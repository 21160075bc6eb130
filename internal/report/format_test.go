package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/s3warden/internal/baseline"
	"github.com/ppiankov/s3warden/internal/model"
)

func TestFormatBucket(t *testing.T) {
	res := model.BucketResult{
		DenyHTTP:       true,
		DenyHTTPStatus: model.DenyHTTPApplied,
		AccessLogging:  true,
		LoggingStatus:  model.LoggingEnabled,
	}

	out := FormatBucket("my-bucket", res)
	if !strings.Contains(out, "PASS") || !strings.Contains(out, "my-bucket") {
		t.Errorf("missing pass marker or bucket name:\n%s", out)
	}
	if !strings.Contains(out, "transport-deny: applied") {
		t.Errorf("missing transport-deny line:\n%s", out)
	}
	if !strings.Contains(out, "access-logging: enabled") {
		t.Errorf("missing access-logging line:\n%s", out)
	}
}

func TestFormatBucketNonCompliant(t *testing.T) {
	res := model.BucketResult{
		DenyHTTPStatus: model.DenyHTTPNeedsChange,
		LoggingStatus:  model.LoggingEnabledOther,
	}

	out := FormatBucket("b", res)
	if !strings.Contains(out, "FAIL") {
		t.Errorf("expected FAIL marker:\n%s", out)
	}
	if !strings.Contains(out, "needs change") || !strings.Contains(out, "other target") {
		t.Errorf("missing status labels:\n%s", out)
	}
}

func TestFormatSummarySkippedControl(t *testing.T) {
	sum := &baseline.Summary{Total: 2, DenyHTTPApplied: 2, LoggingSkipped: 2}

	out := FormatSummary(sum)
	if !strings.Contains(out, "--http-only") {
		t.Errorf("skip note missing:\n%s", out)
	}
	if strings.Contains(out, "disabled:") {
		t.Errorf("per-status logging counters shown despite skip:\n%s", out)
	}
}

func TestFormatSummaryErrorsOnlyWhenPresent(t *testing.T) {
	quiet := FormatSummary(&baseline.Summary{Total: 1, DenyHTTPApplied: 1, LoggingEnabled: 1})
	if strings.Contains(quiet, "error:") {
		t.Errorf("error counter shown with zero errors:\n%s", quiet)
	}

	noisy := FormatSummary(&baseline.Summary{Total: 1, DenyHTTPError: 1, LoggingError: 1})
	if strings.Count(noisy, "error:") != 2 {
		t.Errorf("expected error counters for both controls:\n%s", noisy)
	}
}

func TestFormatJSONRoundTrips(t *testing.T) {
	env := Envelope{
		Tool:      "s3warden",
		Version:   "0.3.0",
		RunID:     "r-1",
		Timestamp: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Mode:      "dry-run",
		Buckets: map[string]model.BucketResult{
			"b": {DenyHTTPStatus: model.DenyHTTPNotApplied, LoggingStatus: model.LoggingDisabled},
		},
		Summary: &baseline.Summary{Total: 1, DenyHTTPNotApplied: 1, LoggingDisabled: 1},
	}

	out, err := FormatJSON(env)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var back Envelope
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Buckets["b"].DenyHTTPStatus != model.DenyHTTPNotApplied {
		t.Errorf("bucket result lost in round trip: %+v", back.Buckets["b"])
	}
	if back.Summary.Total != 1 {
		t.Errorf("summary lost in round trip: %+v", back.Summary)
	}
}
