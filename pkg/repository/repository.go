// Package repository defines the persistence-agnostic port every entity
// store in the coordination core implements, plus an in-memory adapter
// that plays the role of the real backing store (out of scope per the
// spec, but something must exercise the port end to end).
//
// The generic shape follows the teacher's registry.Registry[T] pattern
// (pkg/registry/registry.go): a type parameter over the stored value and
// a sync.RWMutex-guarded map, generalized here with id extraction,
// partial update, and the filter/pagination query surface the spec's
// repository port requires.
package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
)

// Record is the minimal shape every stored entity must expose so the
// adapter can index, sort, and patch it generically.
type Record interface {
	GetID() string
	GetCreatedAt() time.Time
}

// Port is the capability set every component consumes, independent of the
// backing store (spec §4.1).
type Port[T Record] interface {
	FindByID(id string) (T, error)
	FindOne(f filter.Filter) (T, error)
	FindMany(f filter.Filter, p filter.Pagination) (filter.Page[T], error)
	Create(item T) (T, error)
	Update(id string, patch func(*T)) (T, error)
	Delete(id string) error
	Count(f filter.Filter) (int, error)
	Exists(f filter.Filter) (bool, error)
}

// FieldGetterFor builds a filter.FieldGetter for a value of type T. Each
// concrete repository supplies one of these so the generic evaluator can
// reach into entity-specific fields.
type FieldGetterFor[T any] func(item T) filter.FieldGetter

// InMemory is a sync.RWMutex-guarded map-backed Port[T] implementation.
type InMemory[T Record] struct {
	mu      sync.RWMutex
	items   map[string]T
	fieldAt FieldGetterFor[T]
	opName  string
}

// NewInMemory constructs an in-memory adapter. opName is used as the Op
// prefix on returned *mxerrors.Error values (e.g. "task.repository").
func NewInMemory[T Record](opName string, fieldAt FieldGetterFor[T]) *InMemory[T] {
	return &InMemory[T]{
		items:   make(map[string]T),
		fieldAt: fieldAt,
		opName:  opName,
	}
}

func (r *InMemory[T]) FindByID(id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, mxerrors.New(mxerrors.NotFound, r.opName+".FindByID", "no record with id "+id)
	}
	return item, nil
}

func (r *InMemory[T]) FindOne(f filter.Filter) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.snapshotLocked() {
		if filter.Match(f, r.fieldAt(item)) {
			return item, nil
		}
	}
	var zero T
	return zero, mxerrors.New(mxerrors.NotFound, r.opName+".FindOne", "no record matched filter")
}

func (r *InMemory[T]) FindMany(f filter.Filter, p filter.Pagination) (filter.Page[T], error) {
	r.mu.RLock()
	all := r.snapshotLocked()
	r.mu.RUnlock()

	matched := make([]T, 0, len(all))
	for _, item := range all {
		if filter.Match(f, r.fieldAt(item)) {
			matched = append(matched, item)
		}
	}

	sortItems(matched, p, r.fieldAt)

	total := len(matched)
	limit := p.Limit
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	page := matched[offset:end]

	result := filter.Page[T]{
		Items:   page,
		Total:   total,
		HasMore: end < total,
	}
	if limit > 0 {
		result.Page = offset/limit + 1
		result.TotalPages = (total + limit - 1) / limit
	} else {
		result.Page = 1
		result.TotalPages = 1
	}
	return result, nil
}

func (r *InMemory[T]) Create(item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := item.GetID()
	if id == "" {
		var zero T
		return zero, mxerrors.New(mxerrors.InvalidRequest, r.opName+".Create", "id must not be empty")
	}
	if _, exists := r.items[id]; exists {
		var zero T
		return zero, mxerrors.New(mxerrors.Conflict, r.opName+".Create", "record already exists: "+id)
	}
	r.items[id] = item
	return item, nil
}

func (r *InMemory[T]) Update(id string, patch func(*T)) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, mxerrors.New(mxerrors.NotFound, r.opName+".Update", "no record with id "+id)
	}
	patch(&item)
	r.items[id] = item
	return item, nil
}

func (r *InMemory[T]) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return mxerrors.New(mxerrors.NotFound, r.opName+".Delete", "no record with id "+id)
	}
	delete(r.items, id)
	return nil
}

func (r *InMemory[T]) Count(f filter.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.snapshotLocked() {
		if filter.Match(f, r.fieldAt(item)) {
			count++
		}
	}
	return count, nil
}

func (r *InMemory[T]) Exists(f filter.Filter) (bool, error) {
	count, err := r.Count(f)
	return count > 0, err
}

// snapshotLocked must be called with r.mu held (read or write).
func (r *InMemory[T]) snapshotLocked() []T {
	out := make([]T, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out
}

func sortItems[T Record](items []T, p filter.Pagination, fieldAt FieldGetterFor[T]) {
	desc := p.SortOrder == filter.SortDesc
	sortBy := p.SortBy

	sort.SliceStable(items, func(i, j int) bool {
		if sortBy == "" {
			ti, tj := items[i].GetCreatedAt(), items[j].GetCreatedAt()
			if ti.Equal(tj) {
				return items[i].GetID() < items[j].GetID()
			}
			return ti.After(tj) // createdAt desc is the documented default
		}

		vi, _ := fieldAt(items[i])(sortBy)
		vj, _ := fieldAt(items[j])(sortBy)
		less := lessValue(vi, vj)
		if desc {
			return !less && !equalOrdered(vi, vj)
		}
		return less
	})
}

func lessValue(a, b any) bool {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case int:
		if bv, ok := b.(int); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	}
	return false
}

func equalOrdered(a, b any) bool {
	return a == b
}
