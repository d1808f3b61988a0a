// internal/core/usecases/dispatcher_test.go
package usecases

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/platform/logx"
	"dossier/internal/testutil"
)

var testTarget = domain.Target{Input: "example.com", Domain: "example.com"}

func newTestDispatcher(lookups []ports.Lookup, timeout time.Duration) *Dispatcher {
	return NewDispatcher(DispatcherOptions{
		Lookups:       lookups,
		Logger:        testutil.SilentLogger(),
		LookupTimeout: timeout,
	})
}

func TestNewDispatcher(t *testing.T) {
	d := NewDispatcher(DispatcherOptions{})
	testutil.AssertNotNil(t, d, "dispatcher should not be nil")
	testutil.AssertNotNil(t, d.progress, "nop progress by default")
}

func TestDispatcher_Run_AllSucceed(t *testing.T) {
	mocks := allMockLookups()
	d := newTestDispatcher(asLookups(mocks), 0)

	record, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "run should succeed")

	results := record.Results()
	testutil.AssertEqual(t, len(results), 9, "one result per category")
	for i, cat := range domain.Categories() {
		testutil.AssertEqual(t, results[i].Category, cat, "report order")
		testutil.AssertTrue(t, results[i].OK(), "success for "+cat.String())
		testutil.AssertEqual(t, results[i].Payload.Value("Category"), cat.String(), "payload kept")
		testutil.AssertEqual(t, mocks[cat].runCallCount, 1, "lookup run exactly once")
	}
	testutil.AssertFalse(t, record.FinishedAt().Before(record.StartedAt()), "timestamps ordered")
}

func TestDispatcher_Run_InvalidTarget(t *testing.T) {
	mocks := allMockLookups()
	d := newTestDispatcher(asLookups(mocks), 0)

	tests := []struct {
		name   string
		target domain.Target
	}{
		{"empty", domain.Target{}},
		{"ip address", domain.Target{Input: "192.168.1.1", Domain: "192.168.1.1"}},
		{"malformed", domain.Target{Input: "not a domain", Domain: "not a domain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := d.Run(context.Background(), tt.target)
			testutil.AssertError(t, err, "invalid target rejected")
			testutil.AssertTrue(t, record == nil, "no record for invalid target")
		})
	}

	for cat, m := range mocks {
		testutil.AssertEqual(t, m.runCallCount, 0, "no lookup dispatched for "+cat.String())
	}
}

func TestDispatcher_Run_FailureIsolated(t *testing.T) {
	mocks := allMockLookups()
	mocks[domain.CategoryDNS] = mockLookupWithError(domain.CategoryDNS, errors.New("server misbehaving"))
	d := newTestDispatcher(asLookups(mocks), 0)

	record, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "lookup failure is not a scan error")

	dns, _ := record.Result(domain.CategoryDNS)
	testutil.AssertFalse(t, dns.OK(), "dns failed")
	testutil.AssertEqual(t, dns.Failure, "server misbehaving", "failure reason")

	testutil.AssertEqual(t, len(record.Failures()), 1, "only one failure")
	geo, _ := record.Result(domain.CategoryGeo)
	testutil.AssertTrue(t, geo.OK(), "later lookups still run")
}

func TestDispatcher_Run_Panic(t *testing.T) {
	mocks := allMockLookups()
	mocks[domain.CategoryTech].runFunc = func(ctx context.Context, target domain.Target) (*domain.Payload, error) {
		panic("boom")
	}
	d := newTestDispatcher(asLookups(mocks), 0)

	record, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "panic is contained")

	tech, _ := record.Result(domain.CategoryTech)
	testutil.AssertEqual(t, tech.Failure, "internal error: boom", "panic reason")

	meta, _ := record.Result(domain.CategoryMeta)
	testutil.AssertTrue(t, meta.OK(), "dispatch continues after panic")
}

func TestDispatcher_Run_NilPayload(t *testing.T) {
	mocks := allMockLookups()
	mocks[domain.CategoryRobots].runFunc = func(ctx context.Context, target domain.Target) (*domain.Payload, error) {
		return nil, nil
	}
	d := newTestDispatcher(asLookups(mocks), 0)

	record, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "run should succeed")

	robots, _ := record.Result(domain.CategoryRobots)
	testutil.AssertTrue(t, robots.OK(), "nil payload is an empty success")
	testutil.AssertEqual(t, robots.Payload.Len(), 0, "empty payload")
}

func TestDispatcher_Run_MissingLookup(t *testing.T) {
	mocks := allMockLookups()
	delete(mocks, domain.CategorySSL)
	d := newTestDispatcher(asLookups(mocks), 0)

	record, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "run should succeed")

	ssl, ok := record.Result(domain.CategorySSL)
	testutil.AssertTrue(t, ok, "category still present")
	testutil.AssertEqual(t, ssl.Failure, NoLookupReason, "missing lookup reason")
}

func TestDispatcher_Run_DuplicateCategory(t *testing.T) {
	mocks := allMockLookups()
	extra := newMockLookup(domain.CategoryWhois)
	d := newTestDispatcher(append(asLookups(mocks), extra), 0)

	_, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "run should succeed")
	testutil.AssertEqual(t, mocks[domain.CategoryWhois].runCallCount, 1, "first lookup wins")
	testutil.AssertEqual(t, extra.runCallCount, 0, "duplicate ignored")
}

func TestDispatcher_Run_Timeout(t *testing.T) {
	mocks := allMockLookups()
	mocks[domain.CategoryHeaders].runFunc = func(ctx context.Context, target domain.Target) (*domain.Payload, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	d := newTestDispatcher(asLookups(mocks), 50*time.Millisecond)

	record, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "run should succeed")

	headers, _ := record.Result(domain.CategoryHeaders)
	testutil.AssertEqual(t, headers.Failure, "timed out", "timeout reason")
	testutil.AssertTrue(t, headers.Duration >= 50*time.Millisecond, "duration recorded")

	robots, _ := record.Result(domain.CategoryRobots)
	testutil.AssertTrue(t, robots.OK(), "next lookup gets a fresh deadline")
}

func TestDispatcher_Run_TimeoutWrapsLookupError(t *testing.T) {
	mocks := allMockLookups()
	mocks[domain.CategoryMeta].runFunc = func(ctx context.Context, target domain.Target) (*domain.Payload, error) {
		<-ctx.Done()
		return nil, errors.New("read: connection reset")
	}
	d := newTestDispatcher(asLookups(mocks), 20*time.Millisecond)

	record, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "run should succeed")

	meta, _ := record.Result(domain.CategoryMeta)
	testutil.AssertEqual(t, meta.Failure, "timed out", "deadline wins over the raw error")
}

func TestDispatcher_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mocks := allMockLookups()
	mocks[domain.CategoryGeo].runFunc = func(ctx context.Context, target domain.Target) (*domain.Payload, error) {
		cancel()
		return nil, ctx.Err()
	}
	d := newTestDispatcher(asLookups(mocks), 0)

	record, err := d.Run(ctx, testTarget)
	testutil.RequireNoError(t, err, "cancellation still yields a record")

	results := record.Results()
	testutil.AssertEqual(t, len(results), 9, "record complete")

	whois, _ := record.Result(domain.CategoryWhois)
	testutil.AssertTrue(t, whois.OK(), "earlier lookups kept")

	for _, cat := range domain.Categories()[domain.CategoryGeo.Index():] {
		r, _ := record.Result(cat)
		testutil.AssertEqual(t, r.Failure, "canceled", "canceled reason for "+cat.String())
	}
	testutil.AssertEqual(t, mocks[domain.CategorySSL].runCallCount, 0, "remaining lookups not run")
}

func TestDispatcher_Run_Progress(t *testing.T) {
	mocks := allMockLookups()
	mocks[domain.CategoryWhois] = mockLookupWithError(domain.CategoryWhois, errors.New("nope"))
	progress := &mockProgress{}

	d := NewDispatcher(DispatcherOptions{
		Lookups:  asLookups(mocks),
		Logger:   testutil.SilentLogger(),
		Progress: progress,
	})

	_, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "run should succeed")

	testutil.AssertEqual(t, len(progress.events), 18, "two events per category")
	testutil.AssertEqual(t, progress.events[0], "start whois 1/9", "first start")
	testutil.AssertEqual(t, progress.events[1], "finish whois not available 1/9", "first finish")
	testutil.AssertEqual(t, progress.events[17], "finish admin_paths ok 9/9", "last finish")
}

func TestDispatcher_Run_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	mocks := allMockLookups()
	delete(mocks, domain.CategoryMeta)

	d := NewDispatcher(DispatcherOptions{
		Lookups: asLookups(mocks),
		Logger:  logx.NewWithWriter(&buf, logx.LevelDebug),
	})
	_, err := d.Run(context.Background(), testTarget)
	testutil.RequireNoError(t, err, "run should succeed")

	testutil.AssertContains(t, buf.String(), "recon completed", "completion log")
	testutil.AssertContains(t, buf.String(), "ReconRecord{target=example.com, results=9, failures=1,", "record summary logged")
}
