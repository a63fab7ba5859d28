// Package mocks provides mock implementations for testing the shoptrack job system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces in internal/core. To regenerate mocks after interface
// changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockJobRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for JobRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_repository_mock.go github.com/ecs-refurb/shoptrack/internal/core JobRepository

// Generate mock for JobEventRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_event_repository_mock.go github.com/ecs-refurb/shoptrack/internal/core JobEventRepository

// Generate mock for JobPartRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_part_repository_mock.go github.com/ecs-refurb/shoptrack/internal/core JobPartRepository

// Generate mock for JobCommentRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_comment_repository_mock.go github.com/ecs-refurb/shoptrack/internal/core JobCommentRepository

// Generate mocks for the outbound vendor and notifier boundaries.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=vendor_mock.go github.com/ecs-refurb/shoptrack/internal/core VendorClient,NameResolver,DispatchNotifier
