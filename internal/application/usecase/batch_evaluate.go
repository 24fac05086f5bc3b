package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/loan-decision/internal/application/dto"
)

// DefaultBatchConcurrency bounds the number of applications decided at once.
const DefaultBatchConcurrency = 4

// BatchEvaluate decides a list of applications. A row with invalid input
// does not stop the batch.
type BatchEvaluate struct {
	evaluate    *EvaluateApplication
	concurrency int
}

// NewBatchEvaluate creates a new BatchEvaluate use case.
func NewBatchEvaluate(evaluate *EvaluateApplication) *BatchEvaluate {
	return &BatchEvaluate{evaluate: evaluate, concurrency: DefaultBatchConcurrency}
}

// WithConcurrency sets the number of workers. Values below 1 are treated as 1.
func (uc *BatchEvaluate) WithConcurrency(n int) *BatchEvaluate {
	if n < 1 {
		n = 1
	}
	uc.concurrency = n
	return uc
}

// Execute evaluates every request and returns one item per request, in
// input order. It stops early only when ctx is cancelled.
func (uc *BatchEvaluate) Execute(ctx context.Context, reqs []dto.EvaluateApplicationRequest) ([]dto.BatchItem, error) {
	items := make([]dto.BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := dto.BatchItem{Index: i}
			resp, err := uc.evaluate.Execute(gctx, req)
			if err != nil {
				item.Err = err
			} else {
				item.Response = &resp
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
