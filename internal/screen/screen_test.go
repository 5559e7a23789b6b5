package screen

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestDispatchDropsStaleResponse(t *testing.T) {
	var s State[string]

	s, ok := Dispatch(s, Event[string](Requested[string]{Seq: 1}))
	if !ok || s.Status != Loading {
		t.Fatalf("request 1 not applied: %+v", s)
	}

	s, _ = Dispatch(s, Event[string](Requested[string]{Seq: 2}))

	s, ok = Dispatch(s, Event[string](Succeeded[string]{Seq: 2, Data: "new"}))
	if !ok || s.Data != "new" || s.Status != Loaded {
		t.Fatalf("response 2 not applied: %+v", s)
	}

	s, ok = Dispatch(s, Event[string](Succeeded[string]{Seq: 1, Data: "old"}))
	if ok || s.Data != "new" {
		t.Fatalf("stale response 1 overwrote state: %+v", s)
	}
}

func TestDispatchStaleResponseBeforeNewOne(t *testing.T) {
	var s State[string]
	s, _ = Dispatch(s, Event[string](Requested[string]{Seq: 1}))
	s, _ = Dispatch(s, Event[string](Requested[string]{Seq: 2}))

	s, ok := Dispatch(s, Event[string](Succeeded[string]{Seq: 1, Data: "old"}))
	if ok {
		t.Fatal("response older than latest request must be dropped")
	}
	if s.Status != Loading {
		t.Errorf("status = %v, want loading", s.Status)
	}
}

func TestDispatchFailure(t *testing.T) {
	var s State[int]
	s, _ = Dispatch(s, Event[int](Requested[int]{Seq: 1}))
	s, _ = Dispatch(s, Event[int](Succeeded[int]{Seq: 1, Data: 42}))
	s, _ = Dispatch(s, Event[int](Requested[int]{Seq: 2}))

	boom := errors.New("boom")
	s, ok := Dispatch(s, Event[int](FailedWith[int]{Seq: 2, Err: boom}))
	if !ok || s.Status != Failed || !errors.Is(s.Err, boom) {
		t.Fatalf("failure not applied: %+v", s)
	}
	if s.Data != 42 {
		t.Errorf("data = %d, previous data must be kept", s.Data)
	}

	s, ok = Dispatch(s, Event[int](Requested[int]{Seq: 2}))
	if ok {
		t.Error("request with an already used seq must be dropped")
	}
}

type memSequencer struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func (m *memSequencer) NextSeq(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		m.seqs = map[string]int64{}
	}
	m.seqs[key]++
	return m.seqs[key], nil
}

func (m *memSequencer) LatestSeq(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seqs[key], nil
}

func TestRun(t *testing.T) {
	seqs := &memSequencer{}
	key := Key(1, Stock)

	st, fresh, err := Run(context.Background(), seqs, key, func(context.Context) (string, error) {
		return "AAPL", nil
	})
	if err != nil || !fresh {
		t.Fatalf("fresh = %v, err = %v", fresh, err)
	}
	if st.Status != Loaded || st.Data != "AAPL" || st.Seq != 1 {
		t.Errorf("state = %+v", st)
	}
}

func TestRunSuperseded(t *testing.T) {
	seqs := &memSequencer{}
	key := Key(1, Crypto)

	_, fresh, err := Run(context.Background(), seqs, key, func(ctx context.Context) (string, error) {
		// newer request from the same chat arrives while this one is in flight
		_, _ = seqs.NextSeq(ctx, key)
		return "stale", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Error("superseded response must not be fresh")
	}
}

func TestRunFailed(t *testing.T) {
	seqs := &memSequencer{}

	st, fresh, err := Run(context.Background(), seqs, Key(7, Market), func(context.Context) ([]string, error) {
		return nil, errors.New("network")
	})
	if err != nil {
		t.Fatal(err)
	}
	if !fresh || st.Status != Failed || st.Err == nil {
		t.Errorf("state = %+v, fresh = %v", st, fresh)
	}
}

func TestKey(t *testing.T) {
	if got := Key(42, Converter); got != "seq:42:converter" {
		t.Errorf("Key = %q", got)
	}
}
