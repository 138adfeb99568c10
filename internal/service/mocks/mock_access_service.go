package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfshare/internal/service"
)

type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) ResolveEntry(ctx context.Context, token string) (*service.EntryDecision, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EntryDecision), args.Error(1)
}

func (m *MockAccessService) ResolveMeta(ctx context.Context, token string) (*service.ShareMeta, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShareMeta), args.Error(1)
}

func (m *MockAccessService) ResolveFile(ctx context.Context, token string) (*service.FileContent, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileContent), args.Error(1)
}
