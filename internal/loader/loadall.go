package loader

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bharatstats/amenities-cli/internal/dataset"
	"github.com/bharatstats/amenities-cli/internal/model"
)

// Result records the outcome of loading one source.
type Result struct {
	Name   string
	Report dataset.Report
	Err    error // non-nil means the source was skipped
}

// LoadAll loads every source concurrently, then merges the successful ones
// sequentially in declaration order on the natural key. A failed source is
// skipped and reported in its Result; it does not abort the merge of the
// others. LoadAll errors only when no source loads at all.
func LoadAll(ctx context.Context, l *Loader, sources []Source, concurrency int) (model.Dataset, []Result, error) {
	if len(sources) == 0 {
		return model.Dataset{}, nil, eris.New("loader: no sources declared")
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]Result, len(sources))
	sets := make([]model.Dataset, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, src := range sources {
		g.Go(func() error {
			d, report, err := l.Load(gctx, src)
			results[i] = Result{Name: src.Name, Report: report, Err: err}
			sets[i] = d
			// A failing source must not cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	var ok []model.Dataset
	for i, res := range results {
		if res.Err != nil {
			zap.L().Warn("skipping failed source",
				zap.String("source", res.Name),
				zap.Error(res.Err),
			)
			continue
		}
		ok = append(ok, sets[i])
	}
	if len(ok) == 0 {
		return model.Dataset{}, results, eris.New("loader: all sources failed")
	}

	return dataset.Merge(ok...), results, nil
}
