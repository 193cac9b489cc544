// Package testsupport holds fakes shared by package tests.
package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"videotube-api/internal/media"
)

// FakeProvider is an in-memory media.Provider. Set UploadErr or DeleteErr to make the
// matching call fail.
type FakeProvider struct {
	mu        sync.Mutex
	seq       int
	assets    map[string]media.Kind
	deleted   []string
	UploadErr error
	DeleteErr error
	// FailUploadAfter makes uploads fail once that many have succeeded; zero disables it.
	FailUploadAfter int
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{assets: make(map[string]media.Kind)}
}

func (p *FakeProvider) Upload(_ context.Context, path string, kind media.Kind) (media.Asset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.UploadErr != nil {
		return media.Asset{}, p.UploadErr
	}
	if p.FailUploadAfter > 0 && p.seq >= p.FailUploadAfter {
		return media.Asset{}, fmt.Errorf("upload %s: quota exceeded", path)
	}
	p.seq++
	id := fmt.Sprintf("%s/%d%s", kind, p.seq, filepath.Ext(path))
	p.assets[id] = kind
	return media.Asset{URL: "https://media.test/" + id, ID: id}, nil
}

func (p *FakeProvider) Delete(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.DeleteErr != nil {
		return p.DeleteErr
	}
	delete(p.assets, id)
	p.deleted = append(p.deleted, id)
	return nil
}

// Stored lists the ids of assets uploaded and not yet deleted.
func (p *FakeProvider) Stored() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.assets))
	for id := range p.assets {
		ids = append(ids, id)
	}
	return ids
}

func (p *FakeProvider) Deleted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.deleted...)
}
