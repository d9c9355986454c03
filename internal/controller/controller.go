// Package controller defines the generic database contract
// application-level stores are built on. The interface is parametric
// over the entity model, so each collection gets typed access without
// per-entity boilerplate.
package controller

import (
	"context"
	"errors"
)

// ErrUnsupportedOption is returned by implementations for QueryOptions
// features they cannot express (e.g. grouping in a document store).
var ErrUnsupportedOption = errors.New("controller: unsupported query option")

// Condition is a where/having predicate on a single field.
type Condition struct {
	Field    string
	Operator string // one of = != < <= > >=
	Value    any
}

// QueryOptions modify a query. Collection names the entity set
// (table name, collection ref, etc.).
type QueryOptions struct {
	Collection string
	Where      *Condition
	GroupBy    string
	Having     *Condition
}

// Result holds the entities an operation returned or affected.
type Result[M any] struct {
	records []M
}

func NewResult[M any](records []M) *Result[M] {
	return &Result[M]{records: records}
}

// Count returns the number of entities in this result.
func (r *Result[M]) Count() int {
	return len(r.records)
}

// Rows returns the entities in this result.
func (r *Result[M]) Rows() []M {
	return r.records
}

// DB is the required interface for database support. One value serves
// one model type; the same backing store can serve many collections.
type DB[M any] interface {
	Query(ctx context.Context, opts QueryOptions) (*Result[M], error)
	Insert(ctx context.Context, models []M, opts QueryOptions) (*Result[M], error)
	Update(ctx context.Context, model M, opts QueryOptions) (*Result[M], error)
	Delete(ctx context.Context, opts QueryOptions) (*Result[M], error)
}

// Controller is the base every entity controller embeds: a collection
// name bound to a database reference.
type Controller[M any] struct {
	Collection string
	DB         DB[M]
}

func New[M any](collection string, db DB[M]) Controller[M] {
	return Controller[M]{Collection: collection, DB: db}
}

// Options returns QueryOptions scoped to this controller's collection.
func (c Controller[M]) Options(where *Condition) QueryOptions {
	return QueryOptions{Collection: c.Collection, Where: where}
}
