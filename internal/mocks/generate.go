// Package mocks provides mock implementations for testing the auth ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// our port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockDir := mocks.NewMockUserDirectory(ctrl)
//	mockDir.EXPECT().ByID(gomock.Any(), "u1").Return(record, nil)
package mocks

// Generate mock for UserDirectory interface from internal/ports.
// This creates MockUserDirectory with methods for all UserDirectory interface methods:
// ByID, ByEmail, EnsureUser, TouchLastLogin
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_directory_mock.go github.com/wayfarer-travel/wayfarer-go/internal/ports UserDirectory
