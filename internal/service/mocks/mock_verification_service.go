package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfshare/internal/service"
)

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Submit(ctx context.Context, token string, in service.VerifyInput) error {
	args := m.Called(ctx, token, in)
	return args.Error(0)
}
