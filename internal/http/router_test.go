package httpx_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ecs-refurb/shoptrack/internal/data"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
	httpx "github.com/ecs-refurb/shoptrack/internal/http"
	"github.com/ecs-refurb/shoptrack/internal/mocks"
	"github.com/ecs-refurb/shoptrack/internal/service"
)

type routerFixture struct {
	jobs     *mocks.MockJobRepository
	events   *mocks.MockJobEventRepository
	comments *mocks.MockJobCommentRepository
	parts    *mocks.MockJobPartRepository
	vendor   *mocks.MockVendorClient
	router   http.Handler
}

func newRouterFixture(t *testing.T, webhookSecret string) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &routerFixture{
		jobs:     mocks.NewMockJobRepository(ctrl),
		events:   mocks.NewMockJobEventRepository(ctrl),
		comments: mocks.NewMockJobCommentRepository(ctrl),
		parts:    mocks.NewMockJobPartRepository(ctrl),
		vendor:   mocks.NewMockVendorClient(ctrl),
	}

	registry := fieldforms.DefaultRegistry()
	dict := fieldforms.NewDictionary(registry)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	lifecycle := service.NewLifecycleService(service.LifecycleServiceOptions{
		Repos: service.LifecycleRepos{
			Jobs:     f.jobs,
			Events:   f.events,
			Comments: f.comments,
		},
		Deps:   service.LifecycleDeps{Vendor: f.vendor, Forms: registry, Dict: dict},
		Logger: logger,
	})
	reconciler := service.NewReconcileService(service.ReconcileServiceOptions{
		Parts:  f.parts,
		Dict:   dict,
		Forms:  registry,
		Logger: logger,
	})
	ingest := service.NewIngestService(service.IngestServiceOptions{
		Lifecycle:  lifecycle,
		Reconciler: reconciler,
		Deps: service.IngestDeps{
			Cache: data.NewMemoryCacheRepo(),
			Forms: registry,
			Dict:  dict,
		},
		Logger: logger,
	})
	poller := service.NewPollerService(service.PollerServiceOptions{
		Ingest: ingest,
		Vendor: f.vendor,
		Forms:  registry,
		Logger: logger,
	})

	f.router = httpx.NewRouter(httpx.RouterServices{
		Lifecycle:     lifecycle,
		Reconciler:    reconciler,
		Ingest:        ingest,
		Poller:        poller,
		Cache:         data.NewMemoryCacheRepo(),
		WebhookSecret: webhookSecret,
		Logger:        logger,
	})
	return f
}

func (f *routerFixture) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "")

	rec := f.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateJobEndpoint(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "")
	f.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job *model.Job) (*model.Job, error) {
			return job, nil
		})
	f.events.EXPECT().Append(gomock.Any(), gomock.Any()).Return(&model.JobEvent{}, nil)

	rec := f.do(http.MethodPost, "/api/jobs", `{
		"customer_name": "Acme Trucking",
		"shop_name": "Northside Exhaust",
		"initial_state": "at_shop"
	}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var job model.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Regexp(t, `^SJ-[0-9A-F]{8}$`, job.ID)
	assert.Equal(t, model.StateAtShop, job.State)
}

func TestCreateJobRejectsUnknownField(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "")
	rec := f.do(http.MethodPost, "/api/jobs", `{"customer":"Acme"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestGetJobNotFound(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "")
	f.jobs.EXPECT().GetByID(gomock.Any(), "SJ-DEADBEEF").
		Return(nil, apperrors.NotFound("job SJ-DEADBEEF not found"))

	rec := f.do(http.MethodGet, "/api/jobs/SJ-DEADBEEF", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestListJobsRejectsBadStateFilter(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "")
	rec := f.do(http.MethodGet, "/api/jobs?state=warp_drive", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state_filter")
}

func TestLifecycleActionWithEmptyBody(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "")
	job := &model.Job{ID: "SJ-00AA11BB", State: model.StateAtShop}

	f.jobs.EXPECT().GetByID(gomock.Any(), job.ID).Return(job, nil).Times(2)
	f.jobs.EXPECT().Update(gomock.Any(), job.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, upd *model.JobUpdate) (*model.Job, error) {
			out := *job
			out.State = *upd.State
			return &out, nil
		})
	f.events.EXPECT().Append(gomock.Any(), gomock.Any()).Return(&model.JobEvent{}, nil)

	rec := f.do(http.MethodPost, "/api/jobs/SJ-00AA11BB/start-service", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, model.StateInService, updated.State)
}

func TestInvalidTransitionMapsToConflict(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "")
	job := &model.Job{ID: "SJ-00AA11BB", State: model.StateDelivered}

	f.jobs.EXPECT().GetByID(gomock.Any(), job.ID).Return(job, nil).AnyTimes()

	rec := f.do(http.MethodPost, "/api/jobs/SJ-00AA11BB/start-service", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_transition")
}

func TestWebhookAuthGuardsEndpoint(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "hunter2")

	body := `{"formId":"5519208","submissionId":"sub-1","responses":[{"entryId":206,"value":"2"}]}`

	rec := f.do(http.MethodPost, "/api/webhooks/fieldforms", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// With the right secret the payload reaches ingestion; no job id in the
	// responses means it is discarded rather than retried.
	rec = f.do(http.MethodPost, "/api/webhooks/fieldforms", body,
		map[string]string{"X-Webhook-Secret": "hunter2"})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "discarded")
}

func TestWebhookAcceptsSubmission(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "")
	job := &model.Job{ID: "SJ-11223344", State: model.StateQueuedForPickup}

	f.jobs.EXPECT().GetByID(gomock.Any(), job.ID).Return(job, nil).Times(2)
	f.jobs.EXPECT().Update(gomock.Any(), job.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, upd *model.JobUpdate) (*model.Job, error) {
			out := *job
			out.State = *upd.State
			return &out, nil
		})
	f.events.EXPECT().Append(gomock.Any(), gomock.Any()).Return(&model.JobEvent{}, nil)

	body := `{
		"formId": "5519208",
		"submissionId": "sub-2",
		"responses": [{"entryId":201,"label":"Job Number","value":"SJ-11223344"}]
	}`
	rec := f.do(http.MethodPost, "/api/webhooks/fieldforms", body, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "accepted")
}

func TestManualRefreshSweeps(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, "")
	f.vendor.EXPECT().
		ListRecentSubmissions(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).Times(7)

	rec := f.do(http.MethodPost, "/api/refresh", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swept")
}

func TestRecoverMiddlewareTurnsPanicInto500(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := httpx.Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReadyzReportsCacheFailure(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := httpx.NewRouter(httpx.RouterServices{
		Lifecycle:  newBareLifecycle(),
		Reconciler: newBareReconciler(),
		Cache:      failingCache{},
		Logger:     logger,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "cache_unavailable")
}

type failingCache struct{}

func (failingCache) Health(context.Context) error {
	return apperrors.Internal("redis unreachable")
}

func newBareLifecycle() *service.LifecycleService {
	registry := fieldforms.DefaultRegistry()
	return service.NewLifecycleService(service.LifecycleServiceOptions{
		Repos: service.LifecycleRepos{
			Jobs:   nopJobRepo{},
			Events: nopEventRepo{},
		},
		Deps: service.LifecycleDeps{
			Forms: registry,
			Dict:  fieldforms.NewDictionary(registry),
		},
	})
}

func newBareReconciler() *service.ReconcileService {
	registry := fieldforms.DefaultRegistry()
	return service.NewReconcileService(service.ReconcileServiceOptions{
		Parts: nopPartRepo{},
		Dict:  fieldforms.NewDictionary(registry),
		Forms: registry,
	})
}

type nopJobRepo struct{}

func (nopJobRepo) Create(context.Context, *model.Job) (*model.Job, error) {
	return nil, apperrors.Internal("not implemented")
}
func (nopJobRepo) GetByID(context.Context, string) (*model.Job, error) {
	return nil, apperrors.NotFound("not implemented")
}
func (nopJobRepo) Update(context.Context, string, *model.JobUpdate) (*model.Job, error) {
	return nil, apperrors.Internal("not implemented")
}
func (nopJobRepo) Delete(context.Context, string) error { return nil }
func (nopJobRepo) List(context.Context, model.JobListOptions) ([]*model.Job, error) {
	return nil, nil
}

type nopEventRepo struct{}

func (nopEventRepo) Append(context.Context, *model.CreateJobEventRequest) (*model.JobEvent, error) {
	return &model.JobEvent{}, nil
}
func (nopEventRepo) ListByJob(context.Context, string) ([]*model.JobEvent, error) {
	return nil, nil
}

type nopPartRepo struct{}

func (nopPartRepo) Create(context.Context, *model.CreateJobPartRequest) (*model.JobPart, error) {
	return nil, apperrors.Internal("not implemented")
}
func (nopPartRepo) GetBySerial(context.Context, string, string) (*model.JobPart, error) {
	return nil, apperrors.NotFound("not implemented")
}
func (nopPartRepo) FindByName(context.Context, string, string) ([]*model.JobPart, error) {
	return nil, nil
}
func (nopPartRepo) UpdateFields(context.Context, string, *model.JobPartFields) (*model.JobPart, error) {
	return nil, apperrors.Internal("not implemented")
}
func (nopPartRepo) ListByJob(context.Context, string) ([]*model.JobPart, error) {
	return nil, nil
}
