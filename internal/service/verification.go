package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"pdfshare/internal/metrics"
	"pdfshare/internal/model"
	"pdfshare/internal/repository"
)

// VerifyInput is a recipient's code submission. Name and Email, when
// supplied and non-blank, replace the recipient details on success.
type VerifyInput struct {
	Code  string
	Name  *string
	Email *string
}

// VerificationService runs the code challenge for browse shares.
type VerificationService interface {
	// Submit checks the code and latches the share as verified on a match.
	// Submitting the right code again after verification succeeds again.
	Submit(ctx context.Context, token string, in VerifyInput) error
}

type verificationService struct {
	shares repository.ShareRepository
	opts   options
}

// NewVerificationService constructs a VerificationService.
func NewVerificationService(shares repository.ShareRepository, opts ...Option) VerificationService {
	return &verificationService{shares: shares, opts: newOptions(opts)}
}

func (s *verificationService) Submit(ctx context.Context, token string, in VerifyInput) (err error) {
	ctx, span := s.opts.tracer.Start(ctx, "VerificationService.Submit")
	defer func() { endSpan(span, err) }()

	share, err := s.shares.FindByToken(ctx, token)
	if err != nil {
		err = storeError("find share", err)
		s.record(metrics.ResultNotFound, "", err)
		return err
	}
	span.SetAttributes(attribute.String("share.mode", string(share.Mode)))

	if share.Mode != model.ShareModeBrowse {
		s.record(metrics.ResultInvalidMode, share.ID, ErrInvalidMode)
		return ErrInvalidMode
	}

	decision, err := s.opts.limiter.Allow(ctx, share.Token)
	if err != nil {
		return fmt.Errorf("verification limiter: %w: %w", ErrUnavailable, err)
	}
	if !decision.Allowed {
		err = &AttemptsExceededError{RetryAfter: decision.RetryAfter}
		s.record(metrics.ResultRateLimited, share.ID, err)
		return err
	}

	if !codeMatches(share.VerificationCode, in.Code) {
		s.record(metrics.ResultInvalidCode, share.ID, ErrInvalidCode)
		return ErrInvalidCode
	}

	updated := *share
	updated.Verified = true
	if v := optional(in.Name); v != nil {
		updated.RecipientName = v
	}
	if v := optional(in.Email); v != nil {
		updated.RecipientEmail = v
	}
	if _, err := s.shares.Update(ctx, &updated); err != nil {
		return storeError("update share", err)
	}

	s.record(metrics.ResultVerified, share.ID, nil)
	return nil
}

func (s *verificationService) record(result, shareID string, err error) {
	s.opts.metrics.VerificationAttempt(result)

	ev := s.opts.log.Info()
	if err != nil {
		ev = s.opts.log.Warn().Err(err)
	}
	ev.Str("component", "verification").
		Str("event", "share_verification").
		Str("result", result).
		Str("share_id", shareID).
		Msg("verification attempt")
}

func codeMatches(expected *string, submitted string) bool {
	if expected == nil || *expected == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*expected), []byte(submitted)) == 1
}
