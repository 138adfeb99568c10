package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfshare/internal/ratelimit"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) NewShareToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) NewVerificationCode() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ratelimit.Decision), args.Error(1)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
