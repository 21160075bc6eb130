package accesslog

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/s3warden/internal/model"
)

type fakeStore struct {
	configs map[string]*model.LoggingConfig
	getErr  error
	putErr  error
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{configs: make(map[string]*model.LoggingConfig)}
}

func (f *fakeStore) GetLogging(_ context.Context, bucket string) (*model.LoggingConfig, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.configs[bucket], nil
}

func (f *fakeStore) PutLogging(_ context.Context, bucket string, cfg model.LoggingConfig) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	c := cfg
	f.configs[bucket] = &c
	return nil
}

func discard(string, ...any) {}

const account = "123456789012"

func TestCanonicalTarget(t *testing.T) {
	target := CanonicalTarget(account)

	if target.TargetBucket != "access-logs-123456789012" {
		t.Errorf("unexpected target bucket %s", target.TargetBucket)
	}
	if target.TargetPrefix != "AWSLogs/123456789012/S3/" {
		t.Errorf("unexpected target prefix %s", target.TargetPrefix)
	}
}

func TestClassify(t *testing.T) {
	want := CanonicalTarget(account)

	cases := []struct {
		name     string
		cur      *model.LoggingConfig
		expected model.LoggingStatus
	}{
		{"absent", nil, model.LoggingDisabled},
		{"canonical", &model.LoggingConfig{TargetBucket: want.TargetBucket, TargetPrefix: want.TargetPrefix}, model.LoggingEnabled},
		{"other bucket", &model.LoggingConfig{TargetBucket: "someone-elses-logs", TargetPrefix: want.TargetPrefix}, model.LoggingEnabledOther},
		{"other prefix", &model.LoggingConfig{TargetBucket: want.TargetBucket, TargetPrefix: "logs/"}, model.LoggingEnabledOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.cur, want); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestReconcileDisabledApply(t *testing.T) {
	store := newFakeStore()
	r := &Reconciler{Store: store, Target: CanonicalTarget(account), Logf: discard}

	res := r.Reconcile(context.Background(), "b")

	if !res.Success {
		t.Fatal("expected success")
	}
	if res.Status != model.LoggingEnabled {
		t.Errorf("expected re-fetched status enabled, got %s", res.Status)
	}
	if store.puts != 1 {
		t.Errorf("expected 1 write, got %d", store.puts)
	}
}

func TestReconcileEnabledOtherApplyRetargets(t *testing.T) {
	store := newFakeStore()
	store.configs["b"] = &model.LoggingConfig{TargetBucket: "old-logs", TargetPrefix: "old/"}
	r := &Reconciler{Store: store, Target: CanonicalTarget(account), Logf: discard}

	res := r.Reconcile(context.Background(), "b")

	if !res.Success || res.Status != model.LoggingEnabled {
		t.Fatalf("expected success/enabled after retarget, got %+v", res)
	}
	if !store.configs["b"].Equal(CanonicalTarget(account)) {
		t.Errorf("store not rewritten to canonical target: %+v", store.configs["b"])
	}
}

func TestReconcileDryRunReportsPreChangeStatus(t *testing.T) {
	cases := []struct {
		name     string
		cur      *model.LoggingConfig
		expected model.LoggingStatus
	}{
		{"disabled", nil, model.LoggingDisabled},
		{"enabled_other", &model.LoggingConfig{TargetBucket: "elsewhere", TargetPrefix: "p/"}, model.LoggingEnabledOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.configs["b"] = tc.cur
			r := &Reconciler{Store: store, Target: CanonicalTarget(account), DryRun: true, Logf: discard}

			res := r.Reconcile(context.Background(), "b")

			if !res.Success {
				t.Error("dry-run intent should report success")
			}
			if res.Status != tc.expected {
				t.Errorf("expected pre-change status %s, got %s", tc.expected, res.Status)
			}
			if store.puts != 0 {
				t.Errorf("dry-run performed %d writes", store.puts)
			}
		})
	}
}

func TestReconcileIdempotent(t *testing.T) {
	store := newFakeStore()
	r := &Reconciler{Store: store, Target: CanonicalTarget(account), Logf: discard}

	first := r.Reconcile(context.Background(), "b")
	if first.Status != model.LoggingEnabled {
		t.Fatalf("first run: %+v", first)
	}

	second := r.Reconcile(context.Background(), "b")
	if second.Status != model.LoggingEnabled || !second.Success {
		t.Fatalf("second run: %+v", second)
	}
	if store.puts != 1 {
		t.Errorf("second run wrote again: %d writes", store.puts)
	}
}

func TestReconcileReadError(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("access denied")
	r := &Reconciler{Store: store, Target: CanonicalTarget(account), Logf: discard}

	res := r.Reconcile(context.Background(), "b")

	if res.Success {
		t.Error("expected failure")
	}
	if res.Status != model.LoggingError {
		t.Errorf("expected error status, got %s", res.Status)
	}
}

func TestReconcileWriteErrorRetainsLastReadStatus(t *testing.T) {
	store := newFakeStore()
	store.configs["b"] = &model.LoggingConfig{TargetBucket: "elsewhere", TargetPrefix: "p/"}
	store.putErr = errors.New("access denied")
	r := &Reconciler{Store: store, Target: CanonicalTarget(account), Logf: discard}

	res := r.Reconcile(context.Background(), "b")

	if res.Success {
		t.Error("expected failure")
	}
	if res.Status != model.LoggingEnabledOther {
		t.Errorf("expected last-read status enabled_other, got %s", res.Status)
	}
}
