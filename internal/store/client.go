// Package store implements the AWS collaborators the reconcilers and the
// orchestrator consume: caller identity, bucket enumeration, the policy
// store and the logging store, all over aws-sdk-go-v2.
package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Options selects how the AWS session is built. All fields are optional;
// the default credential chain applies when none are set.
type Options struct {
	// Profile selects a shared-config profile.
	Profile string
	// CredentialsFile points at a file holding aws_access_key_id and
	// aws_secret_access_key lines, used as static credentials.
	CredentialsFile string
	// Region overrides the session region.
	Region string
}

// Client bundles the S3 and STS service clients behind the collaborator
// methods the core consumes.
type Client struct {
	s3     *s3.Client
	sts    *sts.Client
	region string
}

// New builds a Client from the default config chain plus the given options.
func New(ctx context.Context, opts Options) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error

	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.CredentialsFile != "" {
		keyID, secret, err := readCredentialsFile(opts.CredentialsFile)
		if err != nil {
			return nil, err
		}
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(keyID, secret, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	return &Client{
		s3:     s3.NewFromConfig(cfg),
		sts:    sts.NewFromConfig(cfg),
		region: cfg.Region,
	}, nil
}

// Region returns the session region the client was built with.
func (c *Client) Region() string {
	return c.region
}

var credentialLine = regexp.MustCompile(`\s*(aws_access_key_id|aws_secret_access_key)\s*=\s*(\S+)\s*`)

// readCredentialsFile extracts a static key pair from an AWS-style
// credentials file.
func readCredentialsFile(path string) (keyID, secret string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		match := credentialLine.FindStringSubmatch(scanner.Text())
		if len(match) != 3 {
			continue
		}
		switch match[1] {
		case "aws_access_key_id":
			keyID = match[2]
		case "aws_secret_access_key":
			secret = match[2]
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", fmt.Errorf("read credentials file: %w", err)
	}

	if keyID == "" {
		return "", "", fmt.Errorf("%w: missing aws_access_key_id", ErrNoCredentials)
	}
	if secret == "" {
		return "", "", fmt.Errorf("%w: missing aws_secret_access_key", ErrNoCredentials)
	}
	return keyID, secret, nil
}
