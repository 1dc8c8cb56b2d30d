// Package query implements the coordinators between the catalog transport and
// the view: cached, flag-annotated state for list pages, incremental list
// sessions and item details.
package query

import (
	"context"

	"github.com/Sternrassler/pokedex-client/pkg/client"
)

// Status is the lifecycle state of a query.
type Status int

const (
	// StatusIdle means the query is disabled or has no input yet.
	StatusIdle Status = iota

	// StatusLoading means the first fetch for the current input is in flight.
	StatusLoading

	// StatusError means the last fetch failed.
	StatusError

	// StatusSuccess means Data holds a result for the current input.
	StatusSuccess
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// State is the observable state of a query for its current input.
type State[T any] struct {
	Data    T
	HasData bool
	Status  Status
	Err     error

	// IsFetching is true while any request for the current input is in
	// flight, including background revalidation of cached data.
	IsFetching bool
}

// IsLoading reports whether the first fetch is in flight.
func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }

// IsError reports whether the last fetch failed.
func (s State[T]) IsError() bool { return s.Status == StatusError }

// IsSuccess reports whether Data is current.
func (s State[T]) IsSuccess() bool { return s.Status == StatusSuccess }

// Fetcher is the transport used by the coordinators. *client.Client
// implements it.
type Fetcher interface {
	FetchList(ctx context.Context, limit, offset int) (*client.ListPage, error)
	FetchByID(ctx context.Context, id int) (*client.ItemDetail, error)
	FetchByName(ctx context.Context, name string) (*client.ItemDetail, error)
}

// Cache key kinds.
const (
	KindList         = "pokemon-list"
	KindListInfinite = "pokemon-list-infinite"
	KindDetailByID   = "pokemon-detail"
	KindDetailByName = "pokemon-by-name"
)
