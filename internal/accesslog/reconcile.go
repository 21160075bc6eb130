// Package accesslog reconciles S3 server access logging against the
// canonical central log bucket target.
package accesslog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ppiankov/s3warden/internal/model"
)

// Store is the logging-store collaborator. GetLogging returns (nil, nil)
// when the bucket has no logging configuration.
type Store interface {
	GetLogging(ctx context.Context, bucket string) (*model.LoggingConfig, error)
	PutLogging(ctx context.Context, bucket string, cfg model.LoggingConfig) error
}

// CanonicalTarget returns the account-scoped central log bucket and prefix.
func CanonicalTarget(accountID string) model.LoggingConfig {
	return model.LoggingConfig{
		TargetBucket: fmt.Sprintf("access-logs-%s", accountID),
		TargetPrefix: fmt.Sprintf("AWSLogs/%s/S3/", accountID),
	}
}

// Classify compares a bucket's current logging configuration against the
// canonical target. cur == nil means logging is off.
func Classify(cur *model.LoggingConfig, want model.LoggingConfig) model.LoggingStatus {
	switch {
	case cur == nil:
		return model.LoggingDisabled
	case cur.Equal(want):
		return model.LoggingEnabled
	default:
		return model.LoggingEnabledOther
	}
}

// Result is the outcome of reconciling one bucket's access-logging control.
type Result struct {
	Status  model.LoggingStatus
	Success bool
	// Changed is true when a logging write was performed this run.
	Changed bool
}

// Reconciler rewrites bucket logging configuration to the canonical
// target. Stateless between buckets.
type Reconciler struct {
	Store Store
	// Target is the canonical logging destination for this account.
	Target model.LoggingConfig
	// DryRun computes and reports intent without writing.
	DryRun bool
	// ShowDiff logs the before/after configuration, independent of run mode.
	ShowDiff bool
	// Logf receives progress lines; defaults to log.Printf.
	Logf func(format string, args ...any)
}

func (r *Reconciler) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Reconcile brings one bucket's access logging to the canonical target.
//
// Status asymmetry, kept deliberately: under apply mode the status is
// re-read from the store after a successful write so the report reflects
// ground truth; under dry-run the pre-change status is reported unchanged,
// describing intent rather than actual state.
func (r *Reconciler) Reconcile(ctx context.Context, bucket string) Result {
	cur, err := r.Store.GetLogging(ctx, bucket)
	if err != nil {
		r.logf("bucket %s: reading logging config failed: %v", bucket, err)
		return Result{Status: model.LoggingError}
	}

	status := Classify(cur, r.Target)
	if status == model.LoggingEnabled {
		r.logf("bucket %s: access logging already set to s3://%s/%s", bucket, r.Target.TargetBucket, r.Target.TargetPrefix)
		return Result{Status: status, Success: true}
	}

	if status == model.LoggingEnabledOther {
		r.logf("bucket %s: access logging enabled but pointed elsewhere, retargeting", bucket)
	}

	if r.ShowDiff {
		r.showDiff(bucket, cur)
	}

	if r.DryRun {
		r.logf("[dry-run] bucket %s: would enable access logging to s3://%s/%s", bucket, r.Target.TargetBucket, r.Target.TargetPrefix)
		return Result{Status: status, Success: true}
	}

	if err := r.Store.PutLogging(ctx, bucket, r.Target); err != nil {
		r.logf("bucket %s: writing logging config failed: %v", bucket, err)
		return Result{Status: status}
	}
	r.logf("bucket %s: access logging enabled to s3://%s/%s", bucket, r.Target.TargetBucket, r.Target.TargetPrefix)

	after, err := r.Store.GetLogging(ctx, bucket)
	if err != nil {
		r.logf("bucket %s: re-reading logging config failed: %v", bucket, err)
		return Result{Status: model.LoggingError, Success: true, Changed: true}
	}
	return Result{Status: Classify(after, r.Target), Success: true, Changed: true}
}

func (r *Reconciler) showDiff(bucket string, cur *model.LoggingConfig) {
	r.logf("bucket %s: logging change", bucket)
	if cur == nil {
		r.logf("before: (access logging disabled)")
	} else if data, err := json.MarshalIndent(cur, "", "  "); err == nil {
		r.logf("before:\n%s", data)
	}
	if data, err := json.MarshalIndent(r.Target, "", "  "); err == nil {
		r.logf("after:\n%s", data)
	}
}
