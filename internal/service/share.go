package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
	"pdfshare/internal/token"
)

// CreateShareInput holds the operator's request for a new share.
// Nil pointers mean the field was not supplied.
type CreateShareInput struct {
	DocumentID     string
	Mode           model.ShareMode
	AllowedPages   *int
	RecipientName  *string
	RecipientEmail *string
	WatermarkText  *string
}

// AdminShare is a share as shown to the operator, verification code included.
type AdminShare struct {
	model.Share
	VerificationCode *string `json:"verificationCode,omitempty"`
}

// ShareListResult is the service-level DTO for paginated shares.
type ShareListResult struct {
	Items []AdminShare `json:"data"`
	Total int          `json:"total"`
}

// ShareService creates shares and lists them for the operator.
type ShareService interface {
	// Create persists a new share for an existing document.
	Create(ctx context.Context, in CreateShareInput) (*model.Share, error)

	// List returns shares newest first.
	List(ctx context.Context, limit, offset int) (*ShareListResult, error)
}

type shareService struct {
	docs   repository.DocumentRepository
	shares repository.ShareRepository
	gen    token.Generator
	opts   options
}

// NewShareService constructs a ShareService.
func NewShareService(docs repository.DocumentRepository, shares repository.ShareRepository, gen token.Generator, opts ...Option) ShareService {
	return &shareService{docs: docs, shares: shares, gen: gen, opts: newOptions(opts)}
}

func (s *shareService) Create(ctx context.Context, in CreateShareInput) (_ *model.Share, err error) {
	ctx, span := s.opts.tracer.Start(ctx, "ShareService.Create",
		trace.WithAttributes(attribute.String("share.mode", string(in.Mode))))
	defer func() { endSpan(span, err) }()

	if !in.Mode.Valid() {
		return nil, fmt.Errorf("%w: invalid mode %q", ErrValidation, in.Mode)
	}
	if in.AllowedPages != nil && *in.AllowedPages <= 0 {
		return nil, ErrInvalidPages
	}
	// A malformed id can never resolve; answer without a store round trip.
	if _, err := uuid.Parse(in.DocumentID); err != nil {
		return nil, fmt.Errorf("document %q: %w", in.DocumentID, ErrNotFound)
	}
	if _, err := s.docs.FindByID(ctx, in.DocumentID); err != nil {
		return nil, storeError("find document", err)
	}

	tok, err := s.gen.NewShareToken()
	if err != nil {
		return nil, fmt.Errorf("generate share token: %w", err)
	}

	share := &model.Share{
		ID:             uuid.NewString(),
		DocumentID:     in.DocumentID,
		Mode:           in.Mode,
		AllowedPages:   copyInt(in.AllowedPages),
		RecipientName:  optional(in.RecipientName),
		RecipientEmail: optional(in.RecipientEmail),
		Token:          tok,
		WatermarkText:  optional(in.WatermarkText),
		CreatedAt:      s.opts.now(),
	}
	if in.Mode == model.ShareModeBrowse {
		code, err := s.gen.NewVerificationCode()
		if err != nil {
			return nil, fmt.Errorf("generate verification code: %w", err)
		}
		share.VerificationCode = &code
	}

	stored, err := s.shares.Create(ctx, share)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("create share: %w", ErrTokenConflict)
		}
		return nil, storeError("create share", err)
	}

	s.opts.metrics.ShareCreated(string(stored.Mode))
	s.opts.log.Info().
		Str("component", "share").
		Str("event", "share_created").
		Str("share_id", stored.ID).
		Str("document_id", stored.DocumentID).
		Str("mode", string(stored.Mode)).
		Msg("share created")
	return stored, nil
}

func (s *shareService) List(ctx context.Context, limit, offset int) (*ShareListResult, error) {
	limit, offset = normalizePage(limit, offset)

	res, err := s.shares.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, storeError("list shares", err)
	}
	items := make([]AdminShare, 0, len(res.Items))
	for _, sh := range res.Items {
		items = append(items, AdminShare{Share: sh, VerificationCode: sh.VerificationCode})
	}
	return &ShareListResult{Items: items, Total: res.Total}, nil
}

// optional maps an empty string to nil. Any other value, whitespace included, is kept verbatim.
func optional(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
