package policy

import (
	"context"
	"log"

	"github.com/ppiankov/s3warden/internal/model"
)

// Store is the policy-store collaborator. GetPolicy returns (nil, nil)
// when the bucket has no policy document: absence is a valid state,
// distinct from a read failure.
type Store interface {
	GetPolicy(ctx context.Context, bucket string) (*model.PolicyDocument, error)
	PutPolicy(ctx context.Context, bucket string, doc *model.PolicyDocument) error
}

// Plan is the pure reconciliation decision for one bucket's document.
type Plan struct {
	// Status classifies the document as found, before any rewrite.
	Status model.DenyHTTPStatus
	// After is the rewritten document, nil when no change is needed.
	After *model.PolicyDocument
	// DroppedIncomplete counts incomplete deny-transport statements removed.
	DroppedIncomplete int
}

// BuildPlan classifies a bucket's current policy document and computes
// the minimal rewrite to reach the canonical state. doc == nil means the
// bucket has no policy.
//
// Decision table:
//   - no document               -> not_applied, canonical statement appended
//   - complete, no incomplete   -> applied, no rewrite
//   - complete and incomplete   -> needs_change, incomplete dropped
//   - no complete               -> needs_change, incomplete dropped,
//     canonical statement appended
//
// Re-running BuildPlan on its own output always yields applied.
func BuildPlan(bucket string, doc *model.PolicyDocument) Plan {
	existed := doc != nil
	if !existed {
		doc = model.NewPolicyDocument()
	}

	hasComplete := false
	dropped := 0
	kept := make([]model.Statement, 0, len(doc.Statement))
	for _, stmt := range doc.Statement {
		if !isTransportDeny(stmt) {
			kept = append(kept, stmt.Clone())
			continue
		}
		if isComplete(stmt) {
			hasComplete = true
			kept = append(kept, stmt.Clone())
			continue
		}
		dropped++
	}

	switch {
	case !existed:
		after := model.NewPolicyDocument()
		after.Statement = append(kept, CanonicalStatement(bucket))
		return Plan{Status: model.DenyHTTPNotApplied, After: after}

	case hasComplete && dropped == 0:
		return Plan{Status: model.DenyHTTPApplied}

	case hasComplete:
		after := &model.PolicyDocument{Version: doc.Version, Statement: kept}
		return Plan{Status: model.DenyHTTPNeedsChange, After: after, DroppedIncomplete: dropped}

	default:
		after := &model.PolicyDocument{Version: doc.Version, Statement: append(kept, CanonicalStatement(bucket))}
		return Plan{Status: model.DenyHTTPNeedsChange, After: after, DroppedIncomplete: dropped}
	}
}

// Result is the outcome of reconciling one bucket's transport-deny control.
type Result struct {
	Status  model.DenyHTTPStatus
	Success bool
	// Changed is true when a policy write was performed this run.
	Changed bool
}

// Reconciler classifies and rewrites bucket policies against the
// canonical transport-deny statement. Stateless between buckets.
type Reconciler struct {
	Store Store
	// DryRun computes and reports the status without writing.
	DryRun bool
	// ShowDiff logs the before/after document, independent of run mode.
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

// Reconcile brings one bucket's policy to the canonical state. A store
// read or write failure yields an error result; it never aborts the batch.
func (r *Reconciler) Reconcile(ctx context.Context, bucket string) Result {
	doc, err := r.Store.GetPolicy(ctx, bucket)
	if err != nil {
		r.logf("bucket %s: reading policy failed: %v", bucket, err)
		return Result{Status: model.DenyHTTPError}
	}

	plan := BuildPlan(bucket, doc)
	if plan.DroppedIncomplete > 0 {
		r.logf("bucket %s: dropping %d incomplete transport-deny statement(s)", bucket, plan.DroppedIncomplete)
	}

	if plan.Status == model.DenyHTTPApplied {
		r.logf("bucket %s: transport-deny policy already applied", bucket)
		return Result{Status: model.DenyHTTPApplied, Success: true}
	}

	if r.ShowDiff {
		r.showDiff(bucket, doc, plan.After)
	}

	if r.DryRun {
		r.logf("[dry-run] bucket %s: would apply transport-deny policy", bucket)
		return Result{Status: plan.Status}
	}

	if err := r.Store.PutPolicy(ctx, bucket, plan.After); err != nil {
		r.logf("bucket %s: writing policy failed: %v", bucket, err)
		return Result{Status: model.DenyHTTPError}
	}

	r.logf("bucket %s: transport-deny policy applied", bucket)
	return Result{Status: model.DenyHTTPApplied, Success: true, Changed: true}
}

func (r *Reconciler) showDiff(bucket string, before, after *model.PolicyDocument) {
	r.logf("bucket %s: policy change", bucket)
	if before == nil {
		r.logf("before: (no policy)")
	} else if s, err := before.JSON(); err == nil {
		r.logf("before:\n%s", s)
	}
	if s, err := after.JSON(); err == nil {
		r.logf("after:\n%s", s)
	}
}
