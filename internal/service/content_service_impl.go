package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/folio/internal/api"
	"github.com/alexanderramin/folio/internal/domain"
)

type contentService struct {
	backend  ContentBackend
	observer UseCaseObserver
}

func NewContentService(backend ContentBackend, observers ...UseCaseObserver) ContentService {
	return &contentService{backend: backend, observer: useCaseObserverOrNoop(observers)}
}

func (s *contentService) Dispatch(ctx context.Context, cmd domain.Command) (_ json.RawMessage, err error) {
	start := time.Now()
	fields := map[string]any{"action": string(cmd.Action), "resource": string(cmd.Resource)}
	defer observe(ctx, s.observer, "content.dispatch", start, fields, &err)

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	out, err := s.backend.Dispatch(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", cmd.Action, cmd.Resource, err)
	}
	return out, nil
}

func (s *contentService) Get(ctx context.Context, r domain.Resource, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: id is required", r)
	}
	out, err := s.backend.Get(ctx, r, id)
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", r, id, err)
	}
	return out, nil
}

func (s *contentService) List(ctx context.Context, r domain.Resource) (json.RawMessage, error) {
	out, err := s.backend.List(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r, err)
	}
	return out, nil
}

func (s *contentService) Item(ctx context.Context, ct domain.ContentType, id string) (domain.Item, error) {
	raw, err := s.Get(ctx, domain.Resource(ct), id)
	if err != nil {
		return domain.Item{}, err
	}
	var it domain.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return domain.Item{}, fmt.Errorf("decoding %s %s: %w", ct, id, err)
	}
	return it, nil
}

func (s *contentService) Upload(ctx context.Context, path string) (_ api.UploadResult, err error) {
	start := time.Now()
	fields := map[string]any{"file": filepath.Base(path)}
	defer observe(ctx, s.observer, "content.upload", start, fields, &err)

	f, err := os.Open(path)
	if err != nil {
		return api.UploadResult{}, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	res, err := s.backend.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return api.UploadResult{}, fmt.Errorf("uploading %s: %w", filepath.Base(path), err)
	}
	return res, nil
}
