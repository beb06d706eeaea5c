package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/lvyanru/coractl/internal/cli/storage"
	"github.com/lvyanru/coractl/internal/cli/types"
)

// ErrNoCachedDocuments is returned by Cached before any successful Refresh
var ErrNoCachedDocuments = errors.New("no cached documents")

// DocumentLister fetches the document list
type DocumentLister interface {
	ListDocuments(ctx context.Context) ([]types.Document, error)
}

type documentCache struct {
	Documents []types.Document `json:"documents"`
}

// DocumentStore mirrors the last fetched document list in persisted storage
// so it can be shown without a round trip. Sign-out clears it.
type DocumentStore struct {
	api     DocumentLister
	storage storage.Storage
}

// NewDocumentStore creates a document cache over st
func NewDocumentStore(api DocumentLister, st storage.Storage) *DocumentStore {
	return &DocumentStore{api: api, storage: st}
}

// Refresh fetches the list and replaces the cached copy
func (d *DocumentStore) Refresh(ctx context.Context) ([]types.Document, error) {
	docs, err := d.api.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	data, err := sonic.MarshalString(persisted[documentCache]{State: documentCache{Documents: docs}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document cache: %w", err)
	}
	if err := d.storage.Set(storage.KeyDocumentStorage, data); err != nil {
		return docs, fmt.Errorf("failed to cache documents: %w", err)
	}
	return docs, nil
}

// Cached returns the list stored by the last Refresh
func (d *DocumentStore) Cached() ([]types.Document, error) {
	raw, err := d.storage.Get(storage.KeyDocumentStorage)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoCachedDocuments
	}
	if err != nil {
		return nil, err
	}

	var env persisted[documentCache]
	if err := sonic.UnmarshalString(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to read document cache: %w", err)
	}
	return env.State.Documents, nil
}
