package postgres

import (
	"context"
	"database/sql"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
)

// SharePostgres is a PostgreSQL implementation of repository.ShareRepository.
type SharePostgres struct {
	db *sql.DB
}

// NewSharePostgres creates a new SharePostgres repository.
func NewSharePostgres(db *sql.DB) *SharePostgres {
	return &SharePostgres{db: db}
}

var _ repository.ShareRepository = (*SharePostgres)(nil)

const shareColumns = `id, document_id, mode, allowed_pages, recipient_name, recipient_email, token, verification_code, verified, watermark_text, created_at`

// Create inserts a share row. The unique index on token turns a collision into repository.ErrConflict.
func (r *SharePostgres) Create(ctx context.Context, s *model.Share) (*model.Share, error) {
	const q = `
		INSERT INTO shares (` + shareColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + shareColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.DocumentID,
		string(s.Mode),
		nullInt(s.AllowedPages),
		nullString(s.RecipientName),
		nullString(s.RecipientEmail),
		s.Token,
		nullString(s.VerificationCode),
		s.Verified,
		nullString(s.WatermarkText),
		s.CreatedAt,
	)
	out, err := scanShare(row)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByToken looks a share up through the unique token index.
func (r *SharePostgres) FindByToken(ctx context.Context, token string) (*model.Share, error) {
	const q = `
		SELECT ` + shareColumns + `
		FROM shares
		WHERE token = $1
	`
	s, err := scanShare(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// Update writes recipient details and the verified latch in one statement.
// OR-ing the stored flag keeps a verified share verified even if a stale copy is written back.
func (r *SharePostgres) Update(ctx context.Context, s *model.Share) (*model.Share, error) {
	const q = `
		UPDATE shares
		SET recipient_name = $2,
		    recipient_email = $3,
		    verified = shares.verified OR $4
		WHERE id = $1
		RETURNING ` + shareColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		nullString(s.RecipientName),
		nullString(s.RecipientEmail),
		s.Verified,
	)
	out, err := scanShare(row)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// List returns one page of shares, newest first, with the overall count.
func (r *SharePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Share], error) {
	return listPage(ctx, r.db, "shares", shareColumns, pq, scanShare)
}

func scanShare(sc scanner) (*model.Share, error) {
	var (
		s                            model.Share
		mode                         string
		allowedPages                 sql.NullInt64
		name, email, code, watermark sql.NullString
	)
	if err := sc.Scan(
		&s.ID,
		&s.DocumentID,
		&mode,
		&allowedPages,
		&name,
		&email,
		&s.Token,
		&code,
		&s.Verified,
		&watermark,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.Mode = model.ShareMode(mode)
	if allowedPages.Valid {
		n := int(allowedPages.Int64)
		s.AllowedPages = &n
	}
	s.RecipientName = stringPtr(name)
	s.RecipientEmail = stringPtr(email)
	s.VerificationCode = stringPtr(code)
	s.WatermarkText = stringPtr(watermark)
	return &s, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
