package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pdfshare/internal/metrics"
	"pdfshare/internal/model"
	"pdfshare/internal/ratelimit"
	"pdfshare/internal/repository"
	repoMocks "pdfshare/internal/repository/mocks"
)

func browseShare(verified bool) *model.Share {
	return &model.Share{
		ID:               "share-1",
		Token:            "tok",
		Mode:             model.ShareModeBrowse,
		RecipientName:    strPtr("Ana"),
		RecipientEmail:   strPtr("ana@example.com"),
		VerificationCode: strPtr("a1b2c3"),
		Verified:         verified,
	}
}

func TestVerificationService_Submit(t *testing.T) {
	isVerifiedUpdate := func(name, email string) any {
		return mock.MatchedBy(func(s *model.Share) bool {
			return s.Verified && s.ID == "share-1" &&
				s.RecipientName != nil && *s.RecipientName == name &&
				s.RecipientEmail != nil && *s.RecipientEmail == email
		})
	}

	tests := []struct {
		name       string
		in         VerifyInput
		setupMocks func(mShares *repoMocks.MockShareRepository)
		wantErr    error
		wantUpdate bool
	}{
		{
			name: "correct code latches verified and keeps recipient",
			in:   VerifyInput{Code: "a1b2c3"},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
				mShares.On("Update", mock.Anything, isVerifiedUpdate("Ana", "ana@example.com")).Return(browseShare(true), nil)
			},
			wantUpdate: true,
		},
		{
			name: "correct code overwrites supplied name and email",
			in:   VerifyInput{Code: "a1b2c3", Name: strPtr("Ana Putri"), Email: strPtr("ana.putri@example.com")},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
				mShares.On("Update", mock.Anything, isVerifiedUpdate("Ana Putri", "ana.putri@example.com")).Return(browseShare(true), nil)
			},
			wantUpdate: true,
		},
		{
			name: "empty name is ignored",
			in:   VerifyInput{Code: "a1b2c3", Name: strPtr("")},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
				mShares.On("Update", mock.Anything, isVerifiedUpdate("Ana", "ana@example.com")).Return(browseShare(true), nil)
			},
			wantUpdate: true,
		},
		{
			name: "whitespace name is stored as given",
			in:   VerifyInput{Code: "a1b2c3", Name: strPtr("  ")},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
				mShares.On("Update", mock.Anything, isVerifiedUpdate("  ", "ana@example.com")).Return(browseShare(true), nil)
			},
			wantUpdate: true,
		},
		{
			name: "padded code is rejected",
			in:   VerifyInput{Code: " a1b2c3 "},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
			},
			wantErr: ErrInvalidCode,
		},
		{
			name: "resubmitting after verification succeeds again",
			in:   VerifyInput{Code: "a1b2c3"},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(true), nil)
				mShares.On("Update", mock.Anything, isVerifiedUpdate("Ana", "ana@example.com")).Return(browseShare(true), nil)
			},
			wantUpdate: true,
		},
		{
			name: "wrong code leaves the share untouched",
			in:   VerifyInput{Code: "000000", Name: strPtr("Mallory")},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
			},
			wantErr: ErrInvalidCode,
		},
		{
			name: "empty code",
			in:   VerifyInput{},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
			},
			wantErr: ErrInvalidCode,
		},
		{
			name: "preview share needs no verification",
			in:   VerifyInput{Code: "a1b2c3"},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").
					Return(&model.Share{ID: "p", Token: "tok", Mode: model.ShareModePreview}, nil)
			},
			wantErr: ErrInvalidMode,
		},
		{
			name: "unknown token",
			in:   VerifyInput{Code: "a1b2c3"},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "update fails",
			in:   VerifyInput{Code: "a1b2c3"},
			setupMocks: func(mShares *repoMocks.MockShareRepository) {
				mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
				mShares.On("Update", mock.Anything, mock.Anything).Return(nil, errors.New("read-only transaction"))
			},
			wantErr:    ErrUnavailable,
			wantUpdate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mShares := new(repoMocks.MockShareRepository)
			tt.setupMocks(mShares)

			err := NewVerificationService(mShares).Submit(context.Background(), "tok", tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if !tt.wantUpdate {
				mShares.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			}
			mShares.AssertExpectations(t)
		})
	}
}

func TestVerificationService_Submit_RateLimited(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewShareMetrics(reg)
	require.NoError(t, err)

	mShares := new(repoMocks.MockShareRepository)
	mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
	lim := new(mockLimiter)
	lim.On("Allow", mock.Anything, "tok").
		Return(ratelimit.Decision{Allowed: false, RetryAfter: 42 * time.Second}, nil)

	err = NewVerificationService(mShares, WithLimiter(lim), WithMetrics(m)).
		Submit(context.Background(), "tok", VerifyInput{Code: "a1b2c3"})

	var exceeded *AttemptsExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 42*time.Second, exceeded.RetryAfter)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	mShares.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	n, err := testutil.GatherAndCount(reg, "share_verifications_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVerificationService_Submit_LimiterDown(t *testing.T) {
	mShares := new(repoMocks.MockShareRepository)
	mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
	lim := new(mockLimiter)
	lim.On("Allow", mock.Anything, "tok").Return(ratelimit.Decision{}, errors.New("redis: connection refused"))

	err := NewVerificationService(mShares, WithLimiter(lim)).
		Submit(context.Background(), "tok", VerifyInput{Code: "a1b2c3"})
	assert.ErrorIs(t, err, ErrUnavailable)
	mShares.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestVerificationService_Submit_LimiterAllows(t *testing.T) {
	mShares := new(repoMocks.MockShareRepository)
	mShares.On("FindByToken", mock.Anything, "tok").Return(browseShare(false), nil)
	mShares.On("Update", mock.Anything, mock.Anything).Return(browseShare(true), nil)
	lim := new(mockLimiter)
	lim.On("Allow", mock.Anything, "tok").Return(ratelimit.Decision{Allowed: true, Remaining: 4}, nil)

	err := NewVerificationService(mShares, WithLimiter(lim)).
		Submit(context.Background(), "tok", VerifyInput{Code: "a1b2c3"})
	require.NoError(t, err)
	lim.AssertExpectations(t)
}

func TestCodeMatches(t *testing.T) {
	assert.True(t, codeMatches(strPtr("abc"), "abc"))
	assert.False(t, codeMatches(strPtr("abc"), "abd"))
	assert.False(t, codeMatches(strPtr("abc"), "ab"))
	assert.False(t, codeMatches(nil, "abc"))
	assert.False(t, codeMatches(strPtr(""), ""))
	assert.False(t, codeMatches(strPtr("abc"), " abc "), "surrounding whitespace is not stripped")
	assert.False(t, codeMatches(strPtr("abc"), "ABC"))
}
