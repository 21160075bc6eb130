package model

// DenyHTTPStatus classifies a bucket's transport-deny compliance.
type DenyHTTPStatus string

const (
	// DenyHTTPApplied means exactly the canonical deny statement is present.
	DenyHTTPApplied DenyHTTPStatus = "applied"
	// DenyHTTPNeedsChange means a policy exists but is missing the canonical
	// statement or carries an incomplete deny-transport variant.
	DenyHTTPNeedsChange DenyHTTPStatus = "needs_change"
	// DenyHTTPNotApplied means the bucket has no policy document at all.
	DenyHTTPNotApplied DenyHTTPStatus = "not_applied"
	// DenyHTTPSkipped means the control was not evaluated (--logging-only).
	DenyHTTPSkipped DenyHTTPStatus = "skipped"
	// DenyHTTPError means a policy store read or write failed.
	DenyHTTPError DenyHTTPStatus = "error"
)

// LoggingStatus classifies a bucket's access-logging configuration.
type LoggingStatus string

const (
	// LoggingEnabled means target bucket and prefix match the canonical values.
	LoggingEnabled LoggingStatus = "enabled"
	// LoggingEnabledOther means logging is on but points elsewhere.
	LoggingEnabledOther LoggingStatus = "enabled_other"
	// LoggingDisabled means no logging configuration is present.
	LoggingDisabled LoggingStatus = "disabled"
	// LoggingSkipped means the control was not evaluated (--http-only).
	LoggingSkipped LoggingStatus = "skipped"
	// LoggingError means a logging store read failed.
	LoggingError LoggingStatus = "error"
)

// LoggingConfig is a bucket's server access logging target.
type LoggingConfig struct {
	TargetBucket string `json:"TargetBucket"`
	TargetPrefix string `json:"TargetPrefix"`
}

// Equal reports whether two logging targets are identical.
func (c LoggingConfig) Equal(o LoggingConfig) bool {
	return c.TargetBucket == o.TargetBucket && c.TargetPrefix == o.TargetPrefix
}

// BucketResult is the per-bucket outcome of one baseline run.
// Transient: built once per bucket, folded into the summary, never persisted.
type BucketResult struct {
	DenyHTTP       bool           `json:"deny_http"`
	DenyHTTPStatus DenyHTTPStatus `json:"deny_http_status"`
	AccessLogging  bool           `json:"access_logging"`
	LoggingStatus  LoggingStatus  `json:"logging_status"`
}

// FullSuccess reports whether every result field is truthy. A skipped
// control leaves its success flag false, so single-control runs never
// roll up as fully successful; the skip-aware summary counters carry
// that information instead.
func (r BucketResult) FullSuccess() bool {
	return r.DenyHTTP && r.AccessLogging &&
		r.DenyHTTPStatus != "" && r.LoggingStatus != ""
}

// Compliant reports whether both controls are in their canonical state,
// independent of whether a write happened this run.
func (r BucketResult) Compliant() bool {
	return r.DenyHTTPStatus == DenyHTTPApplied && r.LoggingStatus == LoggingEnabled
}
