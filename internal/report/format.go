// Package report renders per-bucket outcomes and the run summary as
// text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/s3warden/internal/baseline"
	"github.com/ppiankov/s3warden/internal/model"
)

// Envelope is the machine-readable report for one run.
type Envelope struct {
	Tool      string                        `json:"tool"`
	Version   string                        `json:"version"`
	RunID     string                        `json:"run_id"`
	Timestamp time.Time                     `json:"timestamp"`
	Mode      string                        `json:"mode"`
	Buckets   map[string]model.BucketResult `json:"buckets"`
	Summary   *baseline.Summary             `json:"summary"`
}

// FormatJSON renders the envelope as indented JSON.
func FormatJSON(env Envelope) (string, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

func denyHTTPLabel(s model.DenyHTTPStatus) string {
	switch s {
	case model.DenyHTTPApplied:
		return "applied"
	case model.DenyHTTPNeedsChange:
		return "needs change"
	case model.DenyHTTPNotApplied:
		return "not applied"
	case model.DenyHTTPSkipped:
		return "skipped"
	default:
		return "ERROR"
	}
}

func loggingLabel(s model.LoggingStatus) string {
	switch s {
	case model.LoggingEnabled:
		return "enabled"
	case model.LoggingEnabledOther:
		return "enabled (other target)"
	case model.LoggingDisabled:
		return "disabled"
	case model.LoggingSkipped:
		return "skipped"
	default:
		return "ERROR"
	}
}

// FormatBucket renders one bucket's result as a text block. Emitted per
// bucket as the run streams, so large accounts never buffer the full
// result set.
func FormatBucket(bucket string, res model.BucketResult) string {
	var b strings.Builder

	marker := "FAIL"
	if res.Compliant() {
		marker = "PASS"
	}
	fmt.Fprintf(&b, "  %s  %s\n", marker, bucket)
	fmt.Fprintf(&b, "        transport-deny: %s\n", denyHTTPLabel(res.DenyHTTPStatus))
	fmt.Fprintf(&b, "        access-logging: %s\n", loggingLabel(res.LoggingStatus))

	return b.String()
}

// FormatSummary renders the per-status counters for both controls.
func FormatSummary(sum *baseline.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nSummary: %d bucket", sum.Total)
	if sum.Total != 1 {
		b.WriteString("s")
	}
	b.WriteString(" processed\n")

	b.WriteString("\n  access logging\n")
	if sum.LoggingSkipped > 0 {
		fmt.Fprintf(&b, "    skipped:        %3d (--http-only)\n", sum.LoggingSkipped)
	} else {
		fmt.Fprintf(&b, "    enabled:        %3d\n", sum.LoggingEnabled)
		fmt.Fprintf(&b, "    other target:   %3d\n", sum.LoggingEnabledOther)
		fmt.Fprintf(&b, "    disabled:       %3d\n", sum.LoggingDisabled)
		if sum.LoggingError > 0 {
			fmt.Fprintf(&b, "    error:          %3d\n", sum.LoggingError)
		}
	}

	b.WriteString("\n  transport-deny policy\n")
	if sum.DenyHTTPSkipped > 0 {
		fmt.Fprintf(&b, "    skipped:        %3d (--logging-only)\n", sum.DenyHTTPSkipped)
	} else {
		fmt.Fprintf(&b, "    applied:        %3d\n", sum.DenyHTTPApplied)
		fmt.Fprintf(&b, "    needs change:   %3d\n", sum.DenyHTTPNeedsChange)
		fmt.Fprintf(&b, "    not applied:    %3d\n", sum.DenyHTTPNotApplied)
		if sum.DenyHTTPError > 0 {
			fmt.Fprintf(&b, "    error:          %3d\n", sum.DenyHTTPError)
		}
	}

	fmt.Fprintf(&b, "\n%d of %d buckets fully successful.\n", sum.FullSuccess, sum.Total)
	return b.String()
}
