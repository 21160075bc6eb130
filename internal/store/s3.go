package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/ppiankov/s3warden/internal/model"
)

// AccountID resolves the caller's AWS account via STS.
func (c *Client) AccountID(ctx context.Context) (string, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("get caller identity: %w", err)
	}
	return aws.ToString(out.Account), nil
}

// ListBuckets returns every bucket name in the account, in API order.
func (c *Client) ListBuckets(ctx context.Context) ([]string, error) {
	out, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return names, nil
}

// BucketExists reports whether the named bucket exists and is reachable.
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		if isAPIErrorCode(err, "NotFound", "NoSuchBucket") {
			return false, nil
		}
		return false, fmt.Errorf("head bucket %s: %w", bucket, err)
	}
	return true, nil
}

// CreateBucket creates a bucket in the client's region. us-east-1 must
// not carry a LocationConstraint.
func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	in := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if c.region != "us-east-1" {
		in.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.region),
		}
	}
	if _, err := c.s3.CreateBucket(ctx, in); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// GetPolicy fetches a bucket's policy document. A bucket with no policy
// returns (nil, nil): absence is a state, not a failure.
func (c *Client) GetPolicy(ctx context.Context, bucket string) (*model.PolicyDocument, error) {
	out, err := c.s3.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{Bucket: aws.String(bucket)})
	if err != nil {
		if isAPIErrorCode(err, "NoSuchBucketPolicy") {
			return nil, nil
		}
		return nil, fmt.Errorf("get bucket policy %s: %w", bucket, err)
	}

	var doc model.PolicyDocument
	if err := json.Unmarshal([]byte(aws.ToString(out.Policy)), &doc); err != nil {
		return nil, fmt.Errorf("parse bucket policy %s: %w", bucket, err)
	}
	return &doc, nil
}

// PutPolicy writes a bucket's policy document.
func (c *Client) PutPolicy(ctx context.Context, bucket string, doc *model.PolicyDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal bucket policy %s: %w", bucket, err)
	}
	_, err = c.s3.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucket),
		Policy: aws.String(string(data)),
	})
	if err != nil {
		return fmt.Errorf("put bucket policy %s: %w", bucket, err)
	}
	return nil
}

// GetLogging fetches a bucket's access-logging target. A bucket with
// logging off returns (nil, nil).
func (c *Client) GetLogging(ctx context.Context, bucket string) (*model.LoggingConfig, error) {
	out, err := c.s3.GetBucketLogging(ctx, &s3.GetBucketLoggingInput{Bucket: aws.String(bucket)})
	if err != nil {
		return nil, fmt.Errorf("get bucket logging %s: %w", bucket, err)
	}
	if out.LoggingEnabled == nil {
		return nil, nil
	}
	return &model.LoggingConfig{
		TargetBucket: aws.ToString(out.LoggingEnabled.TargetBucket),
		TargetPrefix: aws.ToString(out.LoggingEnabled.TargetPrefix),
	}, nil
}

// PutLogging writes a bucket's access-logging target.
func (c *Client) PutLogging(ctx context.Context, bucket string, cfg model.LoggingConfig) error {
	_, err := c.s3.PutBucketLogging(ctx, &s3.PutBucketLoggingInput{
		Bucket: aws.String(bucket),
		BucketLoggingStatus: &s3types.BucketLoggingStatus{
			LoggingEnabled: &s3types.LoggingEnabled{
				TargetBucket: aws.String(cfg.TargetBucket),
				TargetPrefix: aws.String(cfg.TargetPrefix),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put bucket logging %s: %w", bucket, err)
	}
	return nil
}
