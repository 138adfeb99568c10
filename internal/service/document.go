package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
	"pdfshare/internal/storage"
)

const pdfContentType = "application/pdf"

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// UploadInput carries an uploaded PDF and its operator-supplied attributes.
type UploadInput struct {
	Title      string
	UploadedBy string
	Filename   string
	Size       int64
	Reader     io.Reader
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload stores the PDF in object storage, saves metadata to DB, and rolls back storage if DB save fails.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	opts  options
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, opts ...Option) DocumentService {
	return &documentService{store: store, repo: repo, opts: newOptions(opts)}
}

// IsPDFFilename reports whether name carries a .pdf extension, ignoring case.
func IsPDFFilename(name string) bool {
	return strings.EqualFold(path.Ext(name), ".pdf")
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !IsPDFFilename(in.Filename) {
		return nil, ErrNotPDF
	}

	// Stored under a random name; the original filename is kept for download labels.
	key := path.Join("documents", uuid.NewString()+".pdf")

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: pdfContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w: %w", ErrUnavailable, err)
	}

	doc := &model.Document{
		ID:          uuid.NewString(),
		Title:       title,
		Filename:    in.Filename,
		StorageKey:  objInfo.Key,
		UploadedBy:  strings.TrimSpace(in.UploadedBy),
		Size:        objInfo.Size,
		ContentType: pdfContentType,
		CreatedAt:   s.opts.now(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %w: %v; rollback delete failed: %v", ErrUnavailable, err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w: %w", ErrUnavailable, err)
	}

	s.opts.log.Info().
		Str("component", "document").
		Str("event", "document_uploaded").
		Str("document_id", stored.ID).
		Int64("size", stored.Size).
		Msg("document uploaded")
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	limit, offset = normalizePage(limit, offset)

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, storeError("list documents", err)
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find document", err)
	}
	return doc, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
