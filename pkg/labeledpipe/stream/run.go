package stream

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Run writes items into unit, ends its writable side and collects everything it produces.
// It returns once the unit has stopped.
func Run(ctx context.Context, unit Unit, items ...any) ([]any, error) {
	grp, gctx := errgroup.WithContext(ctx)

	var res []any

	grp.Go(func() error {
		defer close(unit.Input())

		for _, item := range items {
			if gctx.Err() != nil {
				return errors.Wrap(gctx.Err(), "unable to write item")
			}

			select {
			case <-gctx.Done():
				return errors.Wrap(gctx.Err(), "unable to write item")
			case unit.Input() <- item:
			}
		}

		return nil
	})

	grp.Go(func() error {
		for out := range unit.Output() {
			res = append(res, out)
		}

		return nil
	})

	err := grp.Wait()
	if err != nil {
		return res, err
	}

	err = unit.Wait()
	if err != nil {
		return res, errors.Wrap(err, "unit stopped with an error")
	}

	return res, nil
}
