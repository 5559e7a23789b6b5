package screen

import (
	"context"
	"fmt"
)

type Sequencer interface {
	NextSeq(ctx context.Context, key string) (int64, error)
	LatestSeq(ctx context.Context, key string) (int64, error)
}

// Run fetches under a fresh sequence number of key. fresh is false when
// another request for the same screen was dispatched while fetch ran; the
// caller must then discard the result.
func Run[T any](ctx context.Context, seqs Sequencer, key string, fetch func(ctx context.Context) (T, error)) (st State[T], fresh bool, err error) {
	seq, err := seqs.NextSeq(ctx, key)
	if err != nil {
		return st, false, fmt.Errorf("next seq: %w", err)
	}

	st, _ = Dispatch(st, Event[T](Requested[T]{Seq: seq}))

	data, fetchErr := fetch(ctx)

	latest, err := seqs.LatestSeq(ctx, key)
	if err != nil {
		return st, false, fmt.Errorf("latest seq: %w", err)
	}
	st, _ = Dispatch(st, Event[T](Observed[T]{Seq: latest}))

	if fetchErr != nil {
		st, fresh = Dispatch(st, Event[T](FailedWith[T]{Seq: seq, Err: fetchErr}))
		return st, fresh, nil
	}

	st, fresh = Dispatch(st, Event[T](Succeeded[T]{Seq: seq, Data: data}))
	return st, fresh, nil
}
