package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// sequentialLimit is the list size below which Select stays on one goroutine
const sequentialLimit = 256

// Select returns the items matching filter, in their original order. An
// evaluation error aborts the selection.
func Select(ctx context.Context, filter CompiledFilter, items []Item) ([]Item, error) {
	if len(items) == 0 {
		return []Item{}, nil
	}

	matched := make([]bool, len(items))

	if len(items) < sequentialLimit {
		for i, item := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ok, err := match(filter, item)
			if err != nil {
				return nil, err
			}
			matched[i] = ok
		}
		return collect(items, matched), nil
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(items) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(items); start += chunk {
		start := start
		end := min(start+chunk, len(items))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ok, err := match(filter, items[i])
				if err != nil {
					return err
				}
				// each goroutine owns a disjoint range
				matched[i] = ok
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return collect(items, matched), nil
}

func match(filter CompiledFilter, item Item) (bool, error) {
	if m, ok := filter.(matcher); ok {
		return m.Match(item)
	}
	return filter.Evaluate(item), nil
}

func collect(items []Item, matched []bool) []Item {
	out := make([]Item, 0, len(items))
	for i, ok := range matched {
		if ok {
			out = append(out, items[i])
		}
	}
	return out
}
