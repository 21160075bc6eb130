package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ppiankov/s3warden/internal/accesslog"
	"github.com/ppiankov/s3warden/internal/audit"
	"github.com/ppiankov/s3warden/internal/baseline"
	"github.com/ppiankov/s3warden/internal/model"
	"github.com/ppiankov/s3warden/internal/policy"
	"github.com/ppiankov/s3warden/internal/report"
	"github.com/ppiankov/s3warden/internal/store"
)

var (
	flagApply       bool
	flagBucket      string
	flagProfile     string
	flagCredentials string
	flagRegion      string
	flagExclude     []string
	flagShowPolicy  bool
	flagShowLogging bool
	flagHTTPOnly    bool
	flagLoggingOnly bool
	flagFormat      string
	flagConfig      string
	flagAuditLog    string
)

func init() {
	rootCmd.Flags().BoolVar(&flagApply, "apply", false, "Apply changes (default is dry-run)")
	rootCmd.Flags().StringVar(&flagBucket, "bucket", "", "Process only the named bucket (bypasses the exclude set)")
	rootCmd.Flags().StringVar(&flagProfile, "profile", "", "AWS shared-config profile")
	rootCmd.Flags().StringVar(&flagCredentials, "credentials", "", "Path to a static AWS credentials file")
	rootCmd.Flags().StringVar(&flagRegion, "region", "", "AWS region override")
	rootCmd.Flags().StringArrayVar(&flagExclude, "exclude", nil, "Bucket to exclude (repeatable)")
	rootCmd.Flags().BoolVar(&flagShowPolicy, "show-policy", false, "Show bucket policy before/after")
	rootCmd.Flags().BoolVar(&flagShowLogging, "show-logging", false, "Show logging config before/after")
	rootCmd.Flags().BoolVar(&flagHTTPOnly, "http-only", false, "Apply only the transport-deny policy")
	rootCmd.Flags().BoolVar(&flagLoggingOnly, "logging-only", false, "Enable only access logging")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "Report format (text|json)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to config YAML (default ~/.s3warden/config.yaml)")
	rootCmd.Flags().StringVar(&flagAuditLog, "audit-log", "", "Path to the JSONL reconciliation trail (off when empty)")
}

var rootCmd = &cobra.Command{
	Use:   "s3warden",
	Short: "Audit and remediate the S3 security baseline",
	Long: "Brings every bucket in the account to two baseline controls:\n" +
		"a bucket policy denying non-TLS access, and server access logging\n" +
		"into the account's central log bucket.\n\n" +
		"Dry-run by default; --apply performs the writes.",
	SilenceUsage: true,
	RunE:         runBaseline,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBaseline(cmd *cobra.Command, args []string) error {
	// Reject conflicting modes before any AWS call.
	runCfg := baseline.RunConfig{
		DryRun:      !flagApply,
		Bucket:      flagBucket,
		HTTPOnly:    flagHTTPOnly,
		LoggingOnly: flagLoggingOnly,
	}
	if err := runCfg.Validate(); err != nil {
		return err
	}

	fileCfg, err := baseline.LoadFileConfig(flagConfig)
	if err != nil {
		return err
	}
	runCfg.ShowPolicy = flagShowPolicy || fileCfg.ShowPolicy
	runCfg.ShowLogging = flagShowLogging || fileCfg.ShowLogging
	region := flagRegion
	if region == "" {
		region = fileCfg.Region
	}
	auditPath := flagAuditLog
	if auditPath == "" {
		auditPath = fileCfg.AuditLog
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := store.New(ctx, store.Options{
		Profile:         flagProfile,
		CredentialsFile: flagCredentials,
		Region:          region,
	})
	if err != nil {
		return err
	}

	accountID, err := client.AccountID(ctx)
	if err != nil {
		return fmt.Errorf("resolve account identity: %w", err)
	}
	log.Printf("AWS account %s (region %s)", accountID, client.Region())

	if runCfg.DryRun {
		log.Printf("dry-run mode: no changes will be made (use --apply to write)")
	}

	target := accesslog.CanonicalTarget(accountID)
	logBucket := target.TargetBucket
	runCfg.Exclude = baseline.ExcludeSet(append(fileCfg.Exclude, flagExclude...), logBucket)

	provisioner := &baseline.Provisioner{
		Buckets:   client,
		Policies:  client,
		AccountID: accountID,
		DryRun:    runCfg.DryRun,
	}
	if err := provisioner.Ensure(ctx, logBucket); err != nil {
		return err
	}

	var trail *audit.Log
	if auditPath != "" {
		trail, err = audit.Open(auditPath)
		if err != nil {
			return err
		}
		defer trail.Close()
	}

	runner := &baseline.Runner{
		Config: runCfg,
		Policy: &policy.Reconciler{
			Store:    client,
			DryRun:   runCfg.DryRun,
			ShowDiff: runCfg.ShowPolicy,
		},
		Logging: &accesslog.Reconciler{
			Store:    client,
			Target:   target,
			DryRun:   runCfg.DryRun,
			ShowDiff: runCfg.ShowLogging,
		},
		Buckets: client,
		Trail:   trail,
		RunID:   uuid.NewString(),
	}

	mode := "apply"
	if runCfg.DryRun {
		mode = "dry-run"
	}

	var results map[string]model.BucketResult
	emit := func(bucket string, res model.BucketResult) {
		fmt.Print(report.FormatBucket(bucket, res))
	}
	if flagFormat == "json" {
		// JSON needs the full result set; text streams bucket by bucket.
		results = make(map[string]model.BucketResult)
		emit = func(bucket string, res model.BucketResult) {
			results[bucket] = res
		}
	} else {
		fmt.Println("Report")
	}

	sum, runErr := runner.Run(ctx, emit)

	switch flagFormat {
	case "json":
		out, err := report.FormatJSON(report.Envelope{
			Tool:      "s3warden",
			Version:   version,
			RunID:     runner.RunID,
			Timestamp: time.Now().UTC(),
			Mode:      mode,
			Buckets:   results,
			Summary:   sum,
		})
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		if sum != nil {
			fmt.Print(report.FormatSummary(sum))
		}
	}

	// Per-bucket failures are in the report, not the exit code; only an
	// interrupt or a failure to enumerate makes the run itself fail.
	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}
	return nil
}
