// Package mocks provides mock implementations for testing the proxy.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the core port interfaces. The mocks are generated using go:generate
// directives and are committed alongside the directives.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockJobStore(ctrl)
//	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for JobStore interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_store_mock.go github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/core JobStore

// Generate mock for PaymentClient interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=payment_client_mock.go github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/core PaymentClient

// Generate mock for Dispatcher interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=dispatcher_mock.go github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/core Dispatcher
