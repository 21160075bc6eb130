// Package baseline orchestrates the two security controls across an
// account's buckets: transport-deny policy and server access logging.
// One bucket is fully reconciled before the next begins; per-bucket
// failures are recorded, never fatal.
package baseline

import (
	"context"
	"log"

	"github.com/ppiankov/s3warden/internal/accesslog"
	"github.com/ppiankov/s3warden/internal/audit"
	"github.com/ppiankov/s3warden/internal/model"
	"github.com/ppiankov/s3warden/internal/policy"
)

// Lister is the bucket-enumeration collaborator.
type Lister interface {
	ListBuckets(ctx context.Context) ([]string, error)
}

// Runner sequences both reconcilers over a set of buckets and folds the
// per-bucket results into a Summary.
type Runner struct {
	Config  RunConfig
	Policy  *policy.Reconciler
	Logging *accesslog.Reconciler
	Buckets Lister
	// Trail, when set, receives one audit entry per control per bucket.
	Trail *audit.Log
	RunID string
	// Logf receives progress lines; defaults to log.Printf.
	Logf func(format string, args ...any)
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// ProcessBucket applies the baseline to a single bucket. A panic while
// processing is caught and recorded as an error result for both
// controls; the batch continues.
func (r *Runner) ProcessBucket(ctx context.Context, bucket string) (res model.BucketResult) {
	defer func() {
		if p := recover(); p != nil {
			r.logf("bucket %s: processing failed: %v", bucket, p)
			res = model.BucketResult{
				DenyHTTPStatus: model.DenyHTTPError,
				LoggingStatus:  model.LoggingError,
			}
		}
	}()

	r.logf("processing bucket %s", bucket)

	if r.Config.LoggingOnly {
		res.DenyHTTPStatus = model.DenyHTTPSkipped
	} else {
		pr := r.Policy.Reconcile(ctx, bucket)
		res.DenyHTTP = pr.Success
		res.DenyHTTPStatus = pr.Status
		r.record(bucket, audit.ControlTransportDeny, string(pr.Status),
			pr.Status == model.DenyHTTPError, pr.Changed, pr.Status == model.DenyHTTPApplied)
	}

	if r.Config.HTTPOnly {
		res.LoggingStatus = model.LoggingSkipped
	} else {
		lr := r.Logging.Reconcile(ctx, bucket)
		res.AccessLogging = lr.Success
		res.LoggingStatus = lr.Status
		r.record(bucket, audit.ControlAccessLogging, string(lr.Status),
			lr.Status == model.LoggingError, lr.Changed, lr.Status == model.LoggingEnabled)
	}

	return res
}

// record writes one audit entry; a nil trail means auditing is off.
// Only an error status counts as failed: a dry run that withholds a
// write still reports Success=false on the policy side, and that entry
// must land as planned, not failed.
func (r *Runner) record(bucket, control, status string, failed, changed, compliant bool) {
	if r.Trail == nil {
		return
	}

	action := audit.ActionNone
	switch {
	case failed:
		action = audit.ActionFailed
	case changed:
		action = audit.ActionWrite
	case r.Config.DryRun && !compliant:
		action = audit.ActionPlanned
	}

	mode := "apply"
	if r.Config.DryRun {
		mode = "dry-run"
	}

	entry := audit.Entry{
		RunID:   r.RunID,
		Bucket:  bucket,
		Control: control,
		Status:  status,
		Action:  action,
		Mode:    mode,
	}
	if err := r.Trail.Record(entry); err != nil {
		r.logf("audit trail write failed: %v", err)
	}
}

// Targets resolves the buckets this run will process. An explicit
// --bucket target is processed even when it appears in the exclude set;
// exclusion filters only the enumerate-all path.
func (r *Runner) Targets(ctx context.Context) ([]string, error) {
	if r.Config.Bucket != "" {
		return []string{r.Config.Bucket}, nil
	}

	names, err := r.Buckets.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(names))
	for _, name := range names {
		if r.Config.Exclude[name] {
			continue
		}
		targets = append(targets, name)
	}
	r.logf("%d bucket(s) to process", len(targets))
	return targets, nil
}

// Run processes every target bucket in sequence, emitting each result as
// it is produced so callers can stream output instead of holding the
// whole result set. The returned Summary covers the buckets actually
// processed; ctx cancellation stops the batch between buckets and is
// returned alongside the partial summary.
func (r *Runner) Run(ctx context.Context, emit func(bucket string, res model.BucketResult)) (*Summary, error) {
	targets, err := r.Targets(ctx)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		r.logf("no buckets to process")
	}

	sum := &Summary{}
	for _, bucket := range targets {
		if err := ctx.Err(); err != nil {
			r.logf("interrupted, stopping after %d bucket(s)", sum.Total)
			return sum, err
		}
		res := r.ProcessBucket(ctx, bucket)
		sum.Add(res)
		if emit != nil {
			emit(bucket, res)
		}
	}
	return sum, nil
}
