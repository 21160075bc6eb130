package baseline

import (
	"context"
	"fmt"
	"log"

	"github.com/ppiankov/s3warden/internal/model"
	"github.com/ppiankov/s3warden/internal/policy"
)

// BucketStore is the provisioning subset of the bucket collaborator.
type BucketStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	CreateBucket(ctx context.Context, bucket string) error
}

// Provisioner makes sure the central log bucket exists before a run.
// A provisioning failure is fatal to the whole run: without the log
// bucket the logging control cannot converge on any bucket.
type Provisioner struct {
	Buckets   BucketStore
	Policies  policy.Store
	AccountID string
	DryRun    bool
	Logf      func(format string, args ...any)
}

func (p *Provisioner) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Ensure checks for the central log bucket and, under apply mode,
// creates it with its delivery policy when absent. Under dry-run the
// creation is reported as intent only.
func (p *Provisioner) Ensure(ctx context.Context, logBucket string) error {
	exists, err := p.Buckets.BucketExists(ctx, logBucket)
	if err != nil {
		return fmt.Errorf("check log bucket %s: %w", logBucket, err)
	}
	if exists {
		p.logf("log bucket %s already exists", logBucket)
		return nil
	}

	if p.DryRun {
		p.logf("[dry-run] would create log bucket %s", logBucket)
		return nil
	}

	p.logf("creating log bucket %s", logBucket)
	if err := p.Buckets.CreateBucket(ctx, logBucket); err != nil {
		return fmt.Errorf("create log bucket %s: %w", logBucket, err)
	}
	if err := p.Policies.PutPolicy(ctx, logBucket, LogBucketPolicy(logBucket, p.AccountID)); err != nil {
		return fmt.Errorf("install log bucket policy on %s: %w", logBucket, err)
	}
	p.logf("log bucket %s created", logBucket)
	return nil
}

// LogBucketPolicy grants the S3 logging service write access scoped to
// the account and denies insecure transport on the log bucket itself.
func LogBucketPolicy(logBucket, accountID string) *model.PolicyDocument {
	doc := model.NewPolicyDocument()
	doc.Statement = append(doc.Statement,
		model.Statement{
			"Sid":       "S3ServerAccessLogsPolicy",
			"Effect":    "Allow",
			"Principal": map[string]any{"Service": "logging.s3.amazonaws.com"},
			"Action":    []any{"s3:PutObject"},
			"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", logBucket),
			"Condition": map[string]any{
				"StringEquals": map[string]any{"aws:SourceAccount": accountID},
			},
		},
		policy.CanonicalStatement(logBucket),
	)
	return doc
}
