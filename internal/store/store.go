// Package store implements the typed persistent key-value store: one
// YAML file per record under a kind-scoped directory, with filtering,
// sorting, text search and schema-driven type coercion.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"rds/internal/entity"
	"rds/internal/enum"
)

// SortOrder selects ascending or descending ordering for GetAll.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Query carries the parameters of a GetAll call.
type Query struct {
	Limit     int
	Offset    int
	OrderBy   string
	SortOrder SortOrder
	Filters   map[string]string
}

// Store is the operation set every kind-scoped store exposes. It is
// implemented generically by FileStore.
type Store[T entity.Kind] interface {
	Create(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, uid uuid.UUID, partial map[string]any) (T, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (T, error)
	GetAll(ctx context.Context, q Query) ([]T, error)
	TextSearch(ctx context.Context, query string, fields []string) ([]T, error)
	Delete(ctx context.Context, uid uuid.UUID) (bool, error)
}

// FileStore is the on-disk implementation: one file per record under
// <baseDir>/<kind>/<uid>.yaml. Writes are serialized per-record with
// an in-process mutex; reads are lock-free snapshots. A single owning
// process is the only writer to a given store, so an in-process lock
// is sufficient and no cross-process file lock is required here.
type FileStore[T entity.Kind] struct {
	dir      string
	kindName string

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

var _ Store[entity.Dataset] = (*FileStore[entity.Dataset])(nil)

// NewFileStore creates (if needed) the kind-scoped directory under
// baseDir and returns a FileStore for T.
func NewFileStore[T entity.Kind](baseDir, kindName string) (*FileStore[T], error) {
	dir := filepath.Join(baseDir, kindName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating %s: %w", dir, err)
	}
	return &FileStore[T]{dir: dir, kindName: kindName, locks: map[uuid.UUID]*sync.Mutex{}}, nil
}

func (s *FileStore[T]) lockFor(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *FileStore[T]) recordPath(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+".yaml")
}

// Create persists a new record, failing with entity.ErrAlreadyExists
// if the uid collides with an existing one.
func (s *FileStore[T]) Create(ctx context.Context, e T) (T, error) {
	l := s.lockFor(e.GetUID())
	l.Lock()
	defer l.Unlock()

	path := s.recordPath(e.GetUID())
	if _, err := os.Stat(path); err == nil {
		var zero T
		return zero, fmt.Errorf("%w: %s %s", entity.ErrAlreadyExists, s.kindName, e.GetUID())
	}
	if err := writeAtomic(path, e); err != nil {
		var zero T
		return zero, err
	}
	return e, nil
}

// GetByUID loads a single record.
func (s *FileStore[T]) GetByUID(ctx context.Context, uid uuid.UUID) (T, error) {
	var out T
	data, err := os.ReadFile(s.recordPath(uid))
	if err != nil {
		if os.IsNotExist(err) {
			return out, fmt.Errorf("%w: %s %s", entity.ErrNotFound, s.kindName, uid)
		}
		return out, err
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("store: decoding %s %s: %w", s.kindName, uid, err)
	}
	return out, nil
}

// Update applies the recognized subset of partial's fields onto the
// stored record. Unknown keys are ignored. If partial contains a "uid"
// key that does not match the target, Update fails with
// entity.ErrMismatch.
func (s *FileStore[T]) Update(ctx context.Context, uid uuid.UUID, partial map[string]any) (T, error) {
	l := s.lockFor(uid)
	l.Lock()
	defer l.Unlock()

	current, err := s.GetByUID(ctx, uid)
	if err != nil {
		return current, err
	}

	if rawUID, ok := partial["uid"]; ok {
		coerced := Coerce(rawUID, enum.FieldTypeUUID)
		if !coerced.OK() || coerced.UUID != uid {
			return current, fmt.Errorf("%w: update uid %v does not match target %s", entity.ErrMismatch, rawUID, uid)
		}
	}

	updated, err := applyPartial(current, partial)
	if err != nil {
		return current, err
	}

	if err := writeAtomic(s.recordPath(uid), updated); err != nil {
		return current, err
	}
	return updated, nil
}

// GetAll lists records matching an equality filter map, sorted and
// paginated. Unknown filter keys yield an empty result, never an
// error.
func (s *FileStore[T]) GetAll(ctx context.Context, q Query) ([]T, error) {
	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	schema := fieldTypes(reflect.TypeOf(*new(T)))
	filtered := all[:0:0]
	for _, rec := range all {
		if matchesFilters(rec.fields, q.Filters, schema) {
			filtered = append(filtered, rec)
		}
	}

	if q.OrderBy != "" {
		ft := schema[q.OrderBy]
		sort.SliceStable(filtered, func(i, j int) bool {
			vi := Coerce(filtered[i].fields[q.OrderBy], ft)
			vj := Coerce(filtered[j].fields[q.OrderBy], ft)
			less := lessValue(vi, vj)
			if q.SortOrder == Desc {
				return !less && !vi.Equal(vj)
			}
			return less
		})
	}

	start := q.Offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := len(filtered)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	out := make([]T, 0, end-start)
	for _, rec := range filtered[start:end] {
		out = append(out, rec.entity)
	}
	return out, nil
}

// TextSearch does a case-insensitive substring match over the listed
// string fields.
func (s *FileStore[T]) TextSearch(ctx context.Context, query string, fields []string) ([]T, error) {
	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)

	var out []T
	for _, rec := range all {
		for _, f := range fields {
			raw, ok := rec.fields[f]
			if !ok {
				continue
			}
			s, ok := raw.(string)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(s), needle) {
				out = append(out, rec.entity)
				break
			}
		}
	}
	return out, nil
}

// Delete removes a record, returning false if it did not exist.
func (s *FileStore[T]) Delete(ctx context.Context, uid uuid.UUID) (bool, error) {
	l := s.lockFor(uid)
	l.Lock()
	defer l.Unlock()

	err := os.Remove(s.recordPath(uid))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type record[T entity.Kind] struct {
	entity T
	fields map[string]any
}

func (s *FileStore[T]) loadAll() ([]record[T], error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: listing %s: %w", s.dir, err)
	}

	out := make([]record[T], 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var typed T
		if err := yaml.Unmarshal(data, &typed); err != nil {
			return nil, fmt.Errorf("store: decoding %s: %w", e.Name(), err)
		}
		var fields map[string]any
		if err := yaml.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("store: decoding %s as map: %w", e.Name(), err)
		}
		out = append(out, record[T]{entity: typed, fields: fields})
	}
	return out, nil
}

func matchesFilters(fields map[string]any, filters map[string]string, schema map[string]enum.FieldType) bool {
	for key, want := range filters {
		ft, known := schema[key]
		if !known {
			return false
		}
		raw, present := fields[key]
		if !present {
			return false
		}
		if !Coerce(raw, ft).Equal(Coerce(want, ft)) {
			return false
		}
	}
	return true
}

func lessValue(a, b Value) bool {
	if !a.ok || !b.ok {
		return a.Str < b.Str
	}
	switch a.Kind {
	case enum.FieldTypeInstant:
		return a.Instant.Before(b.Instant)
	case enum.FieldTypeInt:
		return a.Int < b.Int
	case enum.FieldTypeBool:
		return !a.Bool && b.Bool
	default:
		return a.Str < b.Str
	}
}
