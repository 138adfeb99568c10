package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
	"pdfshare/internal/storage"
)

// Labels used when a share leaves the corresponding field blank.
const (
	DefaultPreviewWatermark = "Preview only"
	DefaultPreviewRecipient = "Guest"
	DefaultBrowseWatermark  = "Protected"
	DefaultBrowseRecipient  = "Verified user"
)

// EntryKind names the outcome of resolving a share entry.
type EntryKind string

const (
	EntryPreview              EntryKind = "preview"
	EntryVerificationRequired EntryKind = "verification_required"
	EntryBrowse               EntryKind = "browse"
)

// EntryDecision tells the presentation layer what a visitor of a share may see.
// Title, Watermark and RecipientName are empty for EntryVerificationRequired.
type EntryDecision struct {
	Kind               EntryKind       `json:"status"`
	Token              string          `json:"token"`
	Mode               model.ShareMode `json:"mode"`
	Title              string          `json:"title,omitempty"`
	AllowedPages       *int            `json:"allowedPages"`
	Watermark          string          `json:"watermark,omitempty"`
	RecipientName      string          `json:"recipientName,omitempty"`
	RecipientEmailHint *string         `json:"recipientEmail,omitempty"`
}

// ShareMeta is the ungated metadata of a share.
type ShareMeta struct {
	Mode          model.ShareMode `json:"mode"`
	AllowedPages  *int            `json:"allowedPages"`
	WatermarkText *string         `json:"watermarkText"`
	RecipientName *string         `json:"recipientName"`
	Title         string          `json:"title"`
	StorageKey    string          `json:"storageKey"`
}

// FileContent is a PDF ready to stream. The caller must close Body.
type FileContent struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
	Size        int64
}

// AccessService decides what a share token grants.
type AccessService interface {
	// ResolveEntry returns the entry decision for token.
	ResolveEntry(ctx context.Context, token string) (*EntryDecision, error)

	// ResolveMeta returns share metadata regardless of verification state.
	ResolveMeta(ctx context.Context, token string) (*ShareMeta, error)

	// ResolveFile returns the document bytes, or ErrForbidden for an unverified browse share.
	ResolveFile(ctx context.Context, token string) (*FileContent, error)
}

type accessService struct {
	docs   repository.DocumentRepository
	shares repository.ShareRepository
	store  storage.Storage
	opts   options
}

// NewAccessService constructs an AccessService.
func NewAccessService(docs repository.DocumentRepository, shares repository.ShareRepository, store storage.Storage, opts ...Option) AccessService {
	return &accessService{docs: docs, shares: shares, store: store, opts: newOptions(opts)}
}

func (s *accessService) ResolveEntry(ctx context.Context, token string) (_ *EntryDecision, err error) {
	ctx, span := s.opts.tracer.Start(ctx, "AccessService.ResolveEntry")
	defer func() { endSpan(span, err) }()

	share, doc, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("share.mode", string(share.Mode)), attribute.Bool("share.verified", share.Verified))

	d := &EntryDecision{Token: share.Token, Mode: share.Mode}
	switch {
	case share.Mode == model.ShareModePreview:
		d.Kind = EntryPreview
		d.Title = doc.Title
		d.AllowedPages = share.AllowedPages
		d.Watermark = firstNonEmpty(share.WatermarkText, nil, DefaultPreviewWatermark)
		d.RecipientName = firstNonEmpty(share.RecipientName, nil, DefaultPreviewRecipient)
	case !share.Verified:
		d.Kind = EntryVerificationRequired
		d.RecipientEmailHint = share.RecipientEmail
	default:
		d.Kind = EntryBrowse
		d.Title = doc.Title
		d.Watermark = firstNonEmpty(share.WatermarkText, share.RecipientName, DefaultBrowseWatermark)
		d.RecipientName = firstNonEmpty(share.RecipientName, nil, DefaultBrowseRecipient)
	}
	return d, nil
}

func (s *accessService) ResolveMeta(ctx context.Context, token string) (_ *ShareMeta, err error) {
	ctx, span := s.opts.tracer.Start(ctx, "AccessService.ResolveMeta")
	defer func() { endSpan(span, err) }()

	share, doc, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	return &ShareMeta{
		Mode:          share.Mode,
		AllowedPages:  share.AllowedPages,
		WatermarkText: share.WatermarkText,
		RecipientName: share.RecipientName,
		Title:         doc.Title,
		StorageKey:    doc.StorageKey,
	}, nil
}

func (s *accessService) ResolveFile(ctx context.Context, token string) (_ *FileContent, err error) {
	ctx, span := s.opts.tracer.Start(ctx, "AccessService.ResolveFile")
	defer func() { endSpan(span, err) }()

	share, err := s.shares.FindByToken(ctx, token)
	if err != nil {
		return nil, storeError("find share", err)
	}
	if share.RequiresVerification() {
		return nil, ErrForbidden
	}
	doc, err := s.docs.FindByID(ctx, share.DocumentID)
	if err != nil {
		return nil, storeError("find document", err)
	}

	body, info, err := s.store.Get(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("document file: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("read document file: %w: %w", ErrUnavailable, err)
	}

	s.opts.metrics.FileServed(string(share.Mode))
	return &FileContent{
		Body:        body,
		Filename:    doc.Filename,
		ContentType: pdfContentType,
		Size:        info.Size,
	}, nil
}

// load resolves a token to its share and document. A share whose document is
// gone is reported as not found, the same as an unknown token.
func (s *accessService) load(ctx context.Context, token string) (*model.Share, *model.Document, error) {
	share, err := s.shares.FindByToken(ctx, token)
	if err != nil {
		return nil, nil, storeError("find share", err)
	}
	doc, err := s.docs.FindByID(ctx, share.DocumentID)
	if err != nil {
		return nil, nil, storeError("find document", err)
	}
	return share, doc, nil
}

func firstNonEmpty(a, b *string, def string) string {
	if a != nil && *a != "" {
		return *a
	}
	if b != nil && *b != "" {
		return *b
	}
	return def
}
