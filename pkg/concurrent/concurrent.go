package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Each runs action for every item on at most limit goroutines (no limit when
// limit <= 0). The first error cancels the context handed to the remaining
// actions and is returned once all of them finished.
func Each[T any](ctx context.Context, items []T, limit int, action func(context.Context, T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return action(ctx, item)
		})
	}
	return g.Wait()
}

// Map is Each that collects one result per item, in input order.
func Map[T any, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	indexes := make([]int, len(items))
	for i := range indexes {
		indexes[i] = i
	}
	err := Each(ctx, indexes, limit, func(ctx context.Context, i int) error {
		r, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		out[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
