package baseline

import "github.com/ppiankov/s3warden/internal/model"

// Summary holds per-status counts for both controls across a run.
type Summary struct {
	Total       int `json:"total"`
	FullSuccess int `json:"full_success"`

	LoggingEnabled      int `json:"logging_enabled"`
	LoggingEnabledOther int `json:"logging_enabled_other"`
	LoggingDisabled     int `json:"logging_disabled"`
	LoggingError        int `json:"logging_error"`
	LoggingSkipped      int `json:"logging_skipped"`

	DenyHTTPApplied     int `json:"deny_http_applied"`
	DenyHTTPNeedsChange int `json:"deny_http_needs_change"`
	DenyHTTPNotApplied  int `json:"deny_http_not_applied"`
	DenyHTTPError       int `json:"deny_http_error"`
	DenyHTTPSkipped     int `json:"deny_http_skipped"`
}

// Add folds one bucket result into the counters.
func (s *Summary) Add(res model.BucketResult) {
	s.Total++
	if res.FullSuccess() {
		s.FullSuccess++
	}

	switch res.LoggingStatus {
	case model.LoggingEnabled:
		s.LoggingEnabled++
	case model.LoggingEnabledOther:
		s.LoggingEnabledOther++
	case model.LoggingDisabled:
		s.LoggingDisabled++
	case model.LoggingError:
		s.LoggingError++
	case model.LoggingSkipped:
		s.LoggingSkipped++
	}

	switch res.DenyHTTPStatus {
	case model.DenyHTTPApplied:
		s.DenyHTTPApplied++
	case model.DenyHTTPNeedsChange:
		s.DenyHTTPNeedsChange++
	case model.DenyHTTPNotApplied:
		s.DenyHTTPNotApplied++
	case model.DenyHTTPError:
		s.DenyHTTPError++
	case model.DenyHTTPSkipped:
		s.DenyHTTPSkipped++
	}
}
