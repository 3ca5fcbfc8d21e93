package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/domain/model"
	"github.com/wayfarer-travel/wayfarer-go/internal/mocks"
	mockauth "github.com/wayfarer-travel/wayfarer-go/internal/mocks/auth"
	"go.uber.org/mock/gomock"
)

func activeUserRecord(id, email string) *model.UserRecord {
	now := time.Now().UTC()
	return &model.UserRecord{
		ID:        id,
		Email:     email,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSessionValidator_Validate_ActiveUser(t *testing.T) {
	dir := mockauth.NewStubUserDirectory()
	dir.Put(activeUserRecord("u1", "ada@example.com"))

	validator := NewSessionValidator(dir)
	v := validator.Validate(context.Background(), "u1")

	assert.True(t, v.IsValid())
	assert.Equal(t, "u1", v.User.ID)
	assert.Equal(t, "ada@example.com", v.User.Email)
}

func TestSessionValidator_Validate_UnknownUser(t *testing.T) {
	validator := NewSessionValidator(mockauth.NewStubUserDirectory())
	v := validator.Validate(context.Background(), "ghost")

	assert.False(t, v.IsValid())
	assert.Equal(t, domainauth.ReasonUserNotFound, v.Reason)
}

func TestSessionValidator_Validate_InactiveUser(t *testing.T) {
	dir := mockauth.NewStubUserDirectory()
	rec := activeUserRecord("u1", "ada@example.com")
	rec.Active = false
	dir.Put(rec)

	validator := NewSessionValidator(dir)
	v := validator.Validate(context.Background(), "u1")

	assert.False(t, v.IsValid())
	assert.Equal(t, domainauth.ReasonUserInactive, v.Reason)
}

func TestSessionValidator_Validate_LookupFailure(t *testing.T) {
	dir := mockauth.NewStubUserDirectory()
	dir.LookupErr = errors.New("connection refused")

	validator := NewSessionValidator(dir)
	v := validator.Validate(context.Background(), "u1")

	assert.False(t, v.IsValid())
	assert.Equal(t, domainauth.ReasonLookupFailed, v.Reason)
}

func TestSessionValidator_Validate_SeesDeactivationBetweenCalls(t *testing.T) {
	// No caching: a row change is visible on the very next validation.
	dir := mockauth.NewStubUserDirectory()
	rec := activeUserRecord("u1", "ada@example.com")
	dir.Put(rec)

	validator := NewSessionValidator(dir)
	assert.True(t, validator.Validate(context.Background(), "u1").IsValid())

	rec.Active = false
	dir.Put(rec)

	v := validator.Validate(context.Background(), "u1")
	assert.False(t, v.IsValid())
	assert.Equal(t, domainauth.ReasonUserInactive, v.Reason)
}

func TestSessionValidator_Validate_NormalizesNullableFlags(t *testing.T) {
	dir := mockauth.NewStubUserDirectory()
	rec := activeUserRecord("u1", "ada@example.com")
	admin := true
	rec.IsAdmin = &admin
	// IsAgent and WishlistID left NULL.
	dir.Put(rec)

	validator := NewSessionValidator(dir)
	v := validator.Validate(context.Background(), "u1")

	assert.True(t, v.IsValid())
	assert.True(t, v.User.IsAdmin)
	assert.False(t, v.User.IsAgent)
	assert.Empty(t, v.User.WishlistID)
}

func TestSessionValidator_Validate_OneLookupPerCall(t *testing.T) {
	// Each materialization hits the directory exactly once; nothing is cached
	// between calls.
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockUserDirectory(ctrl)
	dir.EXPECT().
		ByID(gomock.Any(), "u1").
		Return(activeUserRecord("u1", "ada@example.com"), nil).
		Times(2)

	validator := NewSessionValidator(dir)
	assert.True(t, validator.Validate(context.Background(), "u1").IsValid())
	assert.True(t, validator.Validate(context.Background(), "u1").IsValid())
}

func TestSessionValidator_Validate_Idempotent(t *testing.T) {
	dir := mockauth.NewStubUserDirectory()
	dir.Put(activeUserRecord("u1", "ada@example.com"))

	validator := NewSessionValidator(dir)
	first := validator.Validate(context.Background(), "u1")
	second := validator.Validate(context.Background(), "u1")

	assert.Equal(t, first, second)
}
