package repository

import (
	"context"

	"pdfshare/internal/model"
)

// ShareRepository defines data access for shares.
type ShareRepository interface {
	// Create inserts a share. A duplicate token yields ErrConflict.
	Create(ctx context.Context, share *model.Share) (*model.Share, error)

	// FindByToken returns the share addressed by token, or ErrNotFound.
	FindByToken(ctx context.Context, token string) (*model.Share, error)

	// Update persists the mutable fields of a share: recipient name, recipient
	// email and the verified flag. Verified is never cleared by an update.
	Update(ctx context.Context, share *model.Share) (*model.Share, error)

	// List returns a page of shares, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Share], error)
}
