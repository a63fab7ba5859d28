package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ecs-refurb/shoptrack/internal/data"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
	"github.com/ecs-refurb/shoptrack/internal/mocks"
	"github.com/ecs-refurb/shoptrack/internal/service"
)

func newPollerFixture(t *testing.T, cfg service.PollerConfig) (*mocks.MockVendorClient, *service.PollerService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobRepository(ctrl)
	events := mocks.NewMockJobEventRepository(ctrl)
	vendor := mocks.NewMockVendorClient(ctrl)

	registry := fieldforms.DefaultRegistry()
	dict := fieldforms.NewDictionary(registry)
	lifecycle := service.NewLifecycleService(service.LifecycleServiceOptions{
		Repos: service.LifecycleRepos{Jobs: jobs, Events: events},
		Deps:  service.LifecycleDeps{Forms: registry, Dict: dict},
	})
	reconciler := service.NewReconcileService(service.ReconcileServiceOptions{
		Parts: mocks.NewMockJobPartRepository(ctrl),
		Dict:  dict,
		Forms: registry,
	})
	ingest := service.NewIngestService(service.IngestServiceOptions{
		Lifecycle:  lifecycle,
		Reconciler: reconciler,
		Deps: service.IngestDeps{
			Cache: data.NewMemoryCacheRepo(),
			Forms: registry,
			Dict:  dict,
		},
	})
	poller := service.NewPollerService(service.PollerServiceOptions{
		Ingest: ingest,
		Vendor: vendor,
		Forms:  registry,
		Config: cfg,
	})
	return vendor, poller
}

func TestSweepCoversEveryFormBuild(t *testing.T) {
	t.Parallel()

	vendor, poller := newPollerFixture(t, service.PollerConfig{
		Window:        2 * time.Hour,
		StartupWindow: 24 * time.Hour,
	})

	seen := make(map[string]bool)
	vendor.EXPECT().ListRecentSubmissions(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, formID string, _ time.Time) ([]model.Submission, error) {
			seen[formID] = true
			return nil, nil
		}).Times(7)

	require.NoError(t, poller.Sweep(context.Background()))
	assert.ElementsMatch(t,
		[]string{"5201443", "5519208", "5201467", "5483930", "5617772", "5201471", "5520916"},
		mapKeys(seen),
	)
}

func TestSweepWindowWidensOnlyAtStartup(t *testing.T) {
	t.Parallel()

	vendor, poller := newPollerFixture(t, service.PollerConfig{
		Window:        2 * time.Hour,
		StartupWindow: 24 * time.Hour,
	})

	var windows []time.Duration
	vendor.EXPECT().ListRecentSubmissions(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, since time.Time) ([]model.Submission, error) {
			windows = append(windows, time.Since(since))
			return nil, nil
		}).Times(14)

	require.NoError(t, poller.Sweep(context.Background()))
	require.NoError(t, poller.Sweep(context.Background()))
	require.Len(t, windows, 14)

	// First cycle looks back the startup window, later cycles the steady one.
	assert.InDelta(t, float64(24*time.Hour), float64(windows[0]), float64(time.Minute))
	assert.InDelta(t, float64(2*time.Hour), float64(windows[13]), float64(time.Minute))
}

func TestSweepContinuesPastFailingForm(t *testing.T) {
	t.Parallel()

	vendor, poller := newPollerFixture(t, service.PollerConfig{
		Window:        time.Hour,
		StartupWindow: time.Hour,
	})

	calls := 0
	vendor.EXPECT().ListRecentSubmissions(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, formID string, _ time.Time) ([]model.Submission, error) {
			calls++
			if calls == 1 {
				return nil, assert.AnError
			}
			return nil, nil
		}).Times(7)

	err := poller.Sweep(context.Background())
	require.Error(t, err)
	assert.Equal(t, 7, calls)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	vendor, poller := newPollerFixture(t, service.PollerConfig{
		Interval:      time.Hour,
		Window:        time.Hour,
		StartupWindow: time.Hour,
	})
	vendor.EXPECT().ListRecentSubmissions(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

func mapKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
