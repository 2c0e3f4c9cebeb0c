package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/reorder"
	"github.com/alexanderramin/folio/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ErrNotPermutation is returned by SetOrder when the ids are not exactly the
// current items of the content type.
var ErrNotPermutation = errors.New("ids must list every current item exactly once")

type orderService struct {
	backend  OrderBackend
	commits  repository.CommitLogRepo
	observer UseCaseObserver
	now      func() time.Time
}

func NewOrderService(backend OrderBackend, commits repository.CommitLogRepo, observers ...UseCaseObserver) OrderService {
	return &orderService{
		backend:  backend,
		commits:  commits,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *orderService) Load(ctx context.Context, ct domain.ContentType) (*reorder.List, error) {
	items, err := s.backend.ListItems(ctx, ct)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", ct, err)
	}
	return reorder.New(ct, items), nil
}

func (s *orderService) Refresh(ctx context.Context, list *reorder.List) (discarded bool, err error) {
	start := s.now()
	fields := map[string]any{"content_type": string(list.ContentType())}
	defer func() {
		fields["discarded"] = discarded
		observe(ctx, s.observer, "order.refresh", start, fields, &err)
	}()

	items, err := s.backend.ListItems(ctx, list.ContentType())
	if err != nil {
		return false, fmt.Errorf("refreshing %s: %w", list.ContentType(), err)
	}
	return list.Sync(items), nil
}

func (s *orderService) Begin(list *reorder.List) (*reorder.Pending, error) {
	return list.BeginCommit()
}

func (s *orderService) Send(ctx context.Context, list *reorder.List, p *reorder.Pending) (err error) {
	start := s.now()
	fields := map[string]any{
		"content_type": string(p.ContentType),
		"item_count":   len(p.Entries),
	}
	defer observe(ctx, s.observer, "order.commit", start, fields, &err)

	sendErr := s.backend.UpdateOrder(ctx, p.ContentType, p.Entries)
	finished := s.now()

	rec := domain.CommitRecord{
		ContentType: p.ContentType,
		ItemCount:   len(p.Entries),
		Succeeded:   sendErr == nil,
		StartedAt:   start,
		FinishedAt:  finished,
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}
	if logErr := s.commits.Append(ctx, rec); logErr != nil {
		fields["commit_log_error"] = logErr.Error()
	}
	fields["latency_ms"] = finished.Sub(start).Milliseconds()

	return list.Finish(p, sendErr)
}

func (s *orderService) Commit(ctx context.Context, list *reorder.List) error {
	p, err := s.Begin(list)
	if err != nil {
		return err
	}
	return s.Send(ctx, list, p)
}

func (s *orderService) SetOrder(ctx context.Context, ct domain.ContentType, ids []string) (OrderResult, error) {
	list, err := s.Load(ctx, ct)
	if err != nil {
		return OrderResult{}, err
	}
	if !reorder.SamePermutation(list.Snapshot(), ids) {
		return OrderResult{List: list}, ErrNotPermutation
	}
	for i, id := range ids {
		list.MoveID(id, i)
	}
	return s.commitChanges(ctx, list)
}

func (s *orderService) Move(ctx context.Context, ct domain.ContentType, from, to int) (OrderResult, error) {
	list, err := s.Load(ctx, ct)
	if err != nil {
		return OrderResult{}, err
	}
	if from < 0 || from >= list.Len() {
		return OrderResult{List: list}, fmt.Errorf("position %d out of range (1-%d)", from+1, list.Len())
	}
	list.Move(from, to)
	return s.commitChanges(ctx, list)
}

func (s *orderService) commitChanges(ctx context.Context, list *reorder.List) (OrderResult, error) {
	res := OrderResult{List: list, Changed: list.Changes()}
	if !list.Dirty() {
		return res, nil
	}
	if err := s.Commit(ctx, list); err != nil {
		res.Changed = nil
		return res, err
	}
	return res, nil
}

func (s *orderService) History(ctx context.Context, ct *domain.ContentType, limit int) ([]domain.CommitRecord, error) {
	recs, err := s.commits.ListRecent(ctx, ct, limit)
	if err != nil {
		return nil, fmt.Errorf("listing commit history: %w", err)
	}
	return recs, nil
}

func (s *orderService) Overview(ctx context.Context) (_ []TypeSummary, err error) {
	start := s.now()
	defer observe(ctx, s.observer, "order.overview", start, nil, &err)

	out := make([]TypeSummary, len(domain.ContentTypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, ct := range domain.ContentTypes {
		g.Go(func() error {
			items, err := s.backend.ListItems(gctx, ct)
			if err != nil {
				return fmt.Errorf("loading %s: %w", ct, err)
			}
			sum := TypeSummary{ContentType: ct, Total: len(items)}
			for _, it := range items {
				if it.Active {
					sum.Active++
				}
			}
			out[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
