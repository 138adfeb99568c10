// Package memory provides map-backed repositories guarded by a mutex.
// Values are copied on the way in and out so callers never share state with the store.
package memory

import (
	"context"
	"sort"
	"sync"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
)

// Store holds documents and shares in memory.
type Store struct {
	mu        sync.RWMutex
	documents map[string]model.Document
	shares    map[string]model.Share
	byToken   map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		documents: make(map[string]model.Document),
		shares:    make(map[string]model.Share),
		byToken:   make(map[string]string),
	}
}

// Documents returns the document repository view of the store.
func (s *Store) Documents() repository.DocumentRepository { return documentRepo{s} }

// Shares returns the share repository view of the store.
func (s *Store) Shares() repository.ShareRepository { return shareRepo{s} }

// DeleteDocument removes a document without touching its shares.
// It exists so callers can reproduce a dangling share reference.
func (s *Store) DeleteDocument(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
}

type documentRepo struct{ s *Store }

func (r documentRepo) Create(_ context.Context, doc *model.Document) (*model.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.documents[doc.ID]; ok {
		return nil, repository.ErrConflict
	}
	for _, d := range r.s.documents {
		if d.StorageKey == doc.StorageKey {
			return nil, repository.ErrConflict
		}
	}
	r.s.documents[doc.ID] = *doc
	out := *doc
	return &out, nil
}

func (r documentRepo) FindByID(_ context.Context, id string) (*model.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r documentRepo) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	r.s.mu.RLock()
	all := make([]model.Document, 0, len(r.s.documents))
	for _, d := range r.s.documents {
		all = append(all, d)
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return &repository.PageResult[model.Document]{Items: page(all, pq), Total: len(all)}, nil
}

type shareRepo struct{ s *Store }

func (r shareRepo) Create(_ context.Context, share *model.Share) (*model.Share, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.shares[share.ID]; ok {
		return nil, repository.ErrConflict
	}
	if _, ok := r.s.byToken[share.Token]; ok {
		return nil, repository.ErrConflict
	}
	stored := cloneShare(*share)
	r.s.shares[share.ID] = stored
	r.s.byToken[share.Token] = share.ID
	out := cloneShare(stored)
	return &out, nil
}

func (r shareRepo) FindByToken(_ context.Context, token string) (*model.Share, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byToken[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneShare(r.s.shares[id])
	return &out, nil
}

func (r shareRepo) Update(_ context.Context, share *model.Share) (*model.Share, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.shares[share.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cur.RecipientName = cloneString(share.RecipientName)
	cur.RecipientEmail = cloneString(share.RecipientEmail)
	cur.Verified = cur.Verified || share.Verified
	r.s.shares[share.ID] = cur

	out := cloneShare(cur)
	return &out, nil
}

func (r shareRepo) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.Share], error) {
	r.s.mu.RLock()
	all := make([]model.Share, 0, len(r.s.shares))
	for _, sh := range r.s.shares {
		all = append(all, cloneShare(sh))
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return &repository.PageResult[model.Share]{Items: page(all, pq), Total: len(all)}, nil
}

func page[T any](all []T, pq repository.PageQuery) []T {
	start := pq.Offset
	if start < 0 {
		start = 0
	}
	if start > len(all) {
		start = len(all)
	}
	end := len(all)
	if pq.Limit > 0 && start+pq.Limit < end {
		end = start + pq.Limit
	}
	return all[start:end]
}

func cloneShare(s model.Share) model.Share {
	s.RecipientName = cloneString(s.RecipientName)
	s.RecipientEmail = cloneString(s.RecipientEmail)
	s.VerificationCode = cloneString(s.VerificationCode)
	s.WatermarkText = cloneString(s.WatermarkText)
	if s.AllowedPages != nil {
		n := *s.AllowedPages
		s.AllowedPages = &n
	}
	return s
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
