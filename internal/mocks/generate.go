// Package mocks provides mock implementations for testing the dashboard service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives and
// provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockStore := mocks.NewMockSessionStore(ctrl)
//	mockStore.EXPECT().ReadFlag(gomock.Any(), gomock.Any()).Return("true", nil)
package mocks

// Generate mock for Authenticator interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=authenticator_mock.go github.com/aimspurefied/healer-ui-api/internal/ports Authenticator

// Generate mock for SessionStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_store_mock.go github.com/aimspurefied/healer-ui-api/internal/ports SessionStore

// Generate mock for AuthProvider interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=auth_provider_mock.go github.com/aimspurefied/healer-ui-api/internal/ports AuthProvider

// Generate mock for Client interface from internal/resource.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=resource_client_mock.go github.com/aimspurefied/healer-ui-api/internal/resource Client
