// Package screen models the state of a chat screen as a value changed only
// through Dispatch.
//
// Every fetch is tagged with a sequence number. A response whose number is
// older than the latest dispatched request is dropped, so a slow stale
// response can never overwrite a newer one.
package screen

import (
	"fmt"
	"strconv"
)

type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type Name string

const (
	Market     Name = "market"
	Stock      Name = "stock"
	Prediction Name = "prediction"
	Crypto     Name = "crypto"
	Converter  Name = "converter"
)

// Key identifies a screen of a chat in the sequence store.
func Key(chatID int64, name Name) string {
	return fmt.Sprintf("seq:%s:%s", strconv.FormatInt(chatID, 10), name)
}

type State[T any] struct {
	Status Status
	// Latest is the highest request sequence dispatched so far.
	Latest int64
	// Seq is the sequence of the request Data came from.
	Seq  int64
	Data T
	Err  error
}

type Event[T any] interface {
	apply(State[T]) (State[T], bool)
}

// Requested marks a new fetch as the latest one.
type Requested[T any] struct {
	Seq int64
}

// Succeeded delivers the response of the fetch tagged Seq.
type Succeeded[T any] struct {
	Seq  int64
	Data T
}

// FailedWith reports that the fetch tagged Seq failed.
type FailedWith[T any] struct {
	Seq int64
	Err error
}

// Observed tells the state about a request dispatched elsewhere,
// e.g. by a concurrent handler of the same chat.
type Observed[T any] struct {
	Seq int64
}

// Dispatch applies e to s. The bool is false when the event was dropped.
func Dispatch[T any](s State[T], e Event[T]) (State[T], bool) {
	return e.apply(s)
}

func (e Requested[T]) apply(s State[T]) (State[T], bool) {
	if e.Seq <= s.Latest {
		return s, false
	}
	s.Latest = e.Seq
	s.Status = Loading
	s.Err = nil
	return s, true
}

func (e Observed[T]) apply(s State[T]) (State[T], bool) {
	if e.Seq <= s.Latest {
		return s, false
	}
	s.Latest = e.Seq
	return s, true
}

func (e Succeeded[T]) apply(s State[T]) (State[T], bool) {
	if e.Seq < s.Latest || e.Seq <= s.Seq {
		return s, false
	}
	s.Status = Loaded
	s.Seq = e.Seq
	s.Data = e.Data
	s.Err = nil
	return s, true
}

func (e FailedWith[T]) apply(s State[T]) (State[T], bool) {
	if e.Seq < s.Latest || e.Seq <= s.Seq {
		return s, false
	}
	s.Status = Failed
	s.Seq = e.Seq
	s.Err = e.Err
	return s, true
}
