package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ecs-refurb/shoptrack/internal/data"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
	"github.com/ecs-refurb/shoptrack/internal/mocks"
	"github.com/ecs-refurb/shoptrack/internal/service"
)

type ingestFixture struct {
	jobs     *mocks.MockJobRepository
	events   *mocks.MockJobEventRepository
	comments *mocks.MockJobCommentRepository
	parts    *mocks.MockJobPartRepository
	names    *mocks.MockNameResolver
	ingest   *service.IngestService
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &ingestFixture{
		jobs:     mocks.NewMockJobRepository(ctrl),
		events:   mocks.NewMockJobEventRepository(ctrl),
		comments: mocks.NewMockJobCommentRepository(ctrl),
		parts:    mocks.NewMockJobPartRepository(ctrl),
		names:    mocks.NewMockNameResolver(ctrl),
	}
	registry := fieldforms.DefaultRegistry()
	dict := fieldforms.NewDictionary(registry)
	lifecycle := service.NewLifecycleService(service.LifecycleServiceOptions{
		Repos: service.LifecycleRepos{
			Jobs:     f.jobs,
			Events:   f.events,
			Comments: f.comments,
		},
		Deps: service.LifecycleDeps{
			Forms: registry,
			Dict:  dict,
			Now:   func() time.Time { return testClock },
		},
	})
	reconciler := service.NewReconcileService(service.ReconcileServiceOptions{
		Parts: f.parts,
		Dict:  dict,
		Forms: registry,
	})
	f.ingest = service.NewIngestService(service.IngestServiceOptions{
		Lifecycle:  lifecycle,
		Reconciler: reconciler,
		Deps: service.IngestDeps{
			Cache: data.NewMemoryCacheRepo(),
			Forms: registry,
			Dict:  dict,
			Names: f.names,
			Now:   func() time.Time { return testClock },
		},
	})
	return f
}

// trackJob wires the job repository mocks to a single mutable job so chained
// transitions observe each other's writes.
func (f *ingestFixture) trackJob(job *model.Job) {
	var mu sync.Mutex
	f.jobs.EXPECT().GetByID(gomock.Any(), job.ID).DoAndReturn(
		func(_ context.Context, _ string) (*model.Job, error) {
			mu.Lock()
			defer mu.Unlock()
			out := *job
			return &out, nil
		}).AnyTimes()
	f.jobs.EXPECT().Update(gomock.Any(), job.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, upd *model.JobUpdate) (*model.Job, error) {
			mu.Lock()
			defer mu.Unlock()
			if upd.State != nil {
				job.State = *upd.State
			}
			for st, ts := range upd.StateTimestamps {
				v := ts
				switch st {
				case model.StatePickedUp:
					job.PickedUpAt = &v
				case model.StateInService:
					job.InServiceAt = &v
				case model.StateServiceComplete:
					job.ServiceCompleteAt = &v
				case model.StateDelivered:
					job.DeliveredAt = &v
				}
			}
			if upd.ItemCount != nil {
				job.ItemCount = upd.ItemCount
			}
			if upd.TechnicianName != nil {
				job.TechnicianName = upd.TechnicianName
			}
			out := *job
			return &out, nil
		}).AnyTimes()
}

func TestIngestPickupSubmission(t *testing.T) {
	t.Parallel()

	f := newIngestFixture(t)
	job := stampedJob("SJ-11223344", model.StateQueuedForPickup)
	f.trackJob(job)

	submitted := testClock.Add(-10 * time.Minute)
	sub := &model.Submission{
		FormID:       "5519208",
		SubmissionID: "sub-pickup-1",
		SubmittedAt:  &submitted,
		Responses: []model.FieldResponse{
			{EntryID: 201, Label: "Job Number", Value: "Job SJ-11223344 pickup"},
			{EntryID: 206, Value: "4"},
			{EntryID: 212, Value: "strapped to the rear pallet"},
		},
	}

	f.events.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.CreateJobEventRequest) (*model.JobEvent, error) {
			assert.Equal(t, model.EventStateChange, req.Type)
			assert.Equal(t, model.ActorDriver, req.ActorRole)
			assert.Equal(t, submitted, req.OccurredAt)
			return &model.JobEvent{}, nil
		})
	f.comments.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.CreateJobCommentRequest) (*model.JobComment, error) {
			assert.Equal(t, "strapped to the rear pallet", req.Body)
			assert.Equal(t, model.ActorDriver, req.AuthorRole)
			return &model.JobComment{}, nil
		})

	err := f.ingest.Ingest(context.Background(), sub, model.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, model.StatePickedUp, job.State)
	require.NotNil(t, job.ItemCount)
	assert.Equal(t, 4, *job.ItemCount)
}

func TestIngestDuplicateSubmissionIsNoOp(t *testing.T) {
	t.Parallel()

	f := newIngestFixture(t)
	job := stampedJob("SJ-11223344", model.StateQueuedForDelivery)
	f.trackJob(job)

	sub := &model.Submission{
		FormID:       "5520916",
		SubmissionID: "sub-del-1",
		Responses: []model.FieldResponse{
			{EntryID: 701, Label: "Job", Value: "SJ-11223344"},
		},
	}

	f.events.EXPECT().Append(gomock.Any(), gomock.Any()).Return(&model.JobEvent{}, nil).Times(1)

	require.NoError(t, f.ingest.Ingest(context.Background(), sub, model.SourceWebhook))
	assert.Equal(t, model.StateDelivered, job.State)

	// Redelivery of the same submission bounces off the claim.
	require.NoError(t, f.ingest.Ingest(context.Background(), sub, model.SourcePoll))
}

func TestIngestUnknownFormDiscarded(t *testing.T) {
	t.Parallel()

	f := newIngestFixture(t)
	err := f.ingest.Ingest(context.Background(), &model.Submission{
		FormID:       "1234567",
		SubmissionID: "sub-x",
		Responses:    []model.FieldResponse{{EntryID: 1, Value: "SJ-11223344"}},
	}, model.SourceWebhook)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnknownForm(err))
}

func TestIngestMissingJobIDDiscarded(t *testing.T) {
	t.Parallel()

	f := newIngestFixture(t)
	err := f.ingest.Ingest(context.Background(), &model.Submission{
		FormID:       "5519208",
		SubmissionID: "sub-x",
		Responses:    []model.FieldResponse{{EntryID: 206, Value: "4"}},
	}, model.SourceManual)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestIngestServiceSubmissionFromAtShop(t *testing.T) {
	t.Parallel()

	f := newIngestFixture(t)
	atShop := testClock.Add(-4 * time.Hour)
	job := stampedJob("SJ-11223344", model.StateAtShop)
	job.AtShopAt = &atShop
	f.trackJob(job)

	submitted := testClock.Add(-20 * time.Minute)
	sub := &model.Submission{
		FormID:       "5483930",
		SubmissionID: "sub-svc-1",
		SubmittedAt:  &submitted,
		UserID:       "user-7",
		Responses: []model.FieldResponse{
			{EntryID: 401, Label: "Job Number", Value: "SJ-11223344"},
			{EntryID: 410, Value: "01.01012025.01"},
			{EntryID: 421, Value: "PASS", GroupKey: "01.01012025.01"},
			{EntryID: 430, Value: "hairline crack rewelded", GroupKey: "01.01012025.01"},
		},
	}

	f.names.EXPECT().
		ResolveDisplayName(gomock.Any(), "user-7").
		Return("Dana Tech", nil).AnyTimes()
	f.events.EXPECT().Append(gomock.Any(), gomock.Any()).
		Return(&model.JobEvent{}, nil).Times(2)
	f.parts.EXPECT().
		GetBySerial(gomock.Any(), job.ID, "01.01012025.01").
		Return(nil, apperrors.NotFound("no such part"))
	f.parts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.CreateJobPartRequest) (*model.JobPart, error) {
			assert.Equal(t, "01.01012025.01", req.SerialNumber)
			return &model.JobPart{ID: "part-1"}, nil
		})
	f.comments.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.CreateJobCommentRequest) (*model.JobComment, error) {
			assert.Equal(t, "[01.01012025.01] hairline crack rewelded", req.Body)
			assert.Equal(t, "Dana Tech", req.AuthorName)
			assert.Equal(t, model.ActorTechnician, req.AuthorRole)
			return &model.JobComment{}, nil
		})

	err := f.ingest.Ingest(context.Background(), sub, model.SourcePoll)
	require.NoError(t, err)
	assert.Equal(t, model.StateServiceComplete, job.State)
	require.NotNil(t, job.TechnicianName)
	assert.Equal(t, "Dana Tech", *job.TechnicianName)
	require.NotNil(t, job.InServiceAt)
	assert.Equal(t, submitted, *job.InServiceAt)
	require.NotNil(t, job.ServiceCompleteAt)
	assert.Equal(t, submitted, *job.ServiceCompleteAt)
}

func TestIngestServiceSubmissionAlreadyInService(t *testing.T) {
	t.Parallel()

	f := newIngestFixture(t)
	job := stampedJob("SJ-11223344", model.StateInService)
	f.trackJob(job)

	sub := &model.Submission{
		FormID:       "5483930",
		SubmissionID: "sub-svc-2",
		Responses: []model.FieldResponse{
			{EntryID: 401, Label: "Job Number", Value: "SJ-11223344"},
			{EntryID: 410, Value: "01.01012025.01"},
		},
	}

	f.events.EXPECT().Append(gomock.Any(), gomock.Any()).
		Return(&model.JobEvent{}, nil).Times(1)
	f.parts.EXPECT().
		GetBySerial(gomock.Any(), job.ID, "01.01012025.01").
		Return(&model.JobPart{ID: "part-1"}, nil)

	err := f.ingest.Ingest(context.Background(), sub, model.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, model.StateServiceComplete, job.State)
}
