package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/metrics"
)

// AllocationUseCase handles cost-center and project allocations of entry
// lines and caches their rendered grids.
type AllocationUseCase struct {
	txManager TransactionManager
	retrier   Retrier
	allocRepo AllocationRepository
	lineRepo  EntryLineRepository
	refRepo   ReferenceRepository
	idGen     IDGenerator
	cache     Cache
	cacheTTL  time.Duration
	metrics   *metrics.Metrics
}

// NewAllocationUseCase creates a new AllocationUseCase. A nil cache disables
// grid caching.
func NewAllocationUseCase(
	txManager TransactionManager,
	retrier Retrier,
	allocRepo AllocationRepository,
	lineRepo EntryLineRepository,
	refRepo ReferenceRepository,
	idGen IDGenerator,
	cache Cache,
	cacheTTL time.Duration,
	metrics *metrics.Metrics,
) *AllocationUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultGridCacheTTL
	}

	return &AllocationUseCase{
		txManager: txManager,
		retrier:   retrier,
		allocRepo: allocRepo,
		lineRepo:  lineRepo,
		refRepo:   refRepo,
		idGen:     idGen,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
	}
}

// AllocationGrid is everything needed to render the allocation grid of one
// line.
type AllocationGrid struct {
	Kind        domain.AllocationKind
	Line        *domain.EntryLine
	Allocations []*domain.Allocation
	Targets     []*domain.Target
	Allocated   decimal.Decimal
	Remaining   decimal.Decimal
}

// GridRenderer turns a grid into markup.
type GridRenderer func(grid *AllocationGrid) ([]byte, error)

// GetGrid loads the allocations of a line together with the selectable
// targets.
func (uc *AllocationUseCase) GetGrid(ctx context.Context, kind domain.AllocationKind, lineID string) (*AllocationGrid, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidAllocationKind
	}

	line, err := uc.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}

	allocs, err := uc.allocRepo.ListByLine(ctx, kind, lineID)
	if err != nil {
		return nil, err
	}

	targets, err := uc.refRepo.ListTargets(ctx, kind)
	if err != nil {
		return nil, err
	}

	allocated := domain.SumAllocations(allocs)

	return &AllocationGrid{
		Kind:        kind,
		Line:        line,
		Allocations: allocs,
		Targets:     targets,
		Allocated:   allocated,
		Remaining:   line.Amount.Sub(allocated),
	}, nil
}

// RenderGrid returns the rendered grid of a line, serving it from the cache
// when present. The line is always looked up so removed lines are never
// served from a stale cache entry.
func (uc *AllocationUseCase) RenderGrid(ctx context.Context, kind domain.AllocationKind, lineID string, render GridRenderer) ([]byte, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidAllocationKind
	}

	if _, err := uc.lineRepo.GetByID(ctx, lineID); err != nil {
		return nil, err
	}

	key := gridCacheKey(kind, lineID)
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err == nil && len(cached) > 0 {
			uc.countRender(kind, "hit")
			return cached, nil
		}
	}

	grid, err := uc.GetGrid(ctx, kind, lineID)
	if err != nil {
		return nil, err
	}

	out, err := render(grid)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		// A failed write only costs a re-render on the next request.
		_ = uc.cache.Set(ctx, key, out, uc.cacheTTL)
	}
	uc.countRender(kind, "miss")

	return out, nil
}

// AllocationInput is one requested allocation.
type AllocationInput struct {
	TargetID string
	Amount   decimal.Decimal
}

// ReplaceAllocationsInput replaces every allocation of one kind on a line.
type ReplaceAllocationsInput struct {
	Kind   domain.AllocationKind
	LineID string
	Items  []AllocationInput
}

// ReplaceAllocations validates and stores the allocations of a line. An empty
// item list clears them.
func (uc *AllocationUseCase) ReplaceAllocations(ctx context.Context, input ReplaceAllocationsInput) ([]*domain.Allocation, error) {
	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidAllocationKind
	}

	line, err := uc.lineRepo.GetByID(ctx, input.LineID)
	if err != nil {
		return nil, err
	}

	targets, err := uc.refRepo.ListTargets(ctx, input.Kind)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Target, len(targets))
	for _, t := range targets {
		byID[t.ID] = t
	}

	now := time.Now().UTC()
	allocs := make([]*domain.Allocation, 0, len(input.Items))
	for _, item := range input.Items {
		target, ok := byID[item.TargetID]
		if !ok {
			return nil, input.Kind.NotFound()
		}

		allocs = append(allocs, &domain.Allocation{
			ID:         uc.idGen.Generate(),
			LineID:     line.ID,
			TargetID:   target.ID,
			TargetCode: target.Code,
			TargetName: target.Name,
			Kind:       input.Kind,
			Amount:     item.Amount.Round(domain.AmountPlaces),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	if err := domain.ValidateAllocations(line, allocs); err != nil {
		return nil, err
	}

	err = uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := uc.allocRepo.Replace(txCtx, tx, input.Kind, line.ID, allocs); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		// Stale grids expire with the cache TTL.
		_ = uc.cache.Delete(ctx, gridCacheKey(input.Kind, line.ID))
	}

	if uc.metrics != nil {
		uc.metrics.AllocationsReplaced.WithLabelValues(string(input.Kind)).Inc()
	}

	return allocs, nil
}

// ListTargets lists the cost centers or projects that can be allocated to.
func (uc *AllocationUseCase) ListTargets(ctx context.Context, kind domain.AllocationKind) ([]*domain.Target, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidAllocationKind
	}

	return uc.refRepo.ListTargets(ctx, kind)
}

func (uc *AllocationUseCase) countRender(kind domain.AllocationKind, result string) {
	if uc.metrics != nil {
		uc.metrics.GridRenders.WithLabelValues(string(kind), result).Inc()
	}
}

func gridCacheKey(kind domain.AllocationKind, lineID string) string {
	return "grid:" + string(kind) + ":" + lineID
}
