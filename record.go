package dirtyhash

import (
	"context"
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"
	"time"

	"github.com/horockey/dirtyhash/pkg/codec"
	"github.com/horockey/go-toolbox/options"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Record is a write-back mirror of a single remote hash.
//
// Field mutations and reads are local and never fail. Only Load, Synchronize
// and Destroy talk to the store, and only fields changed since the last
// successful sync are sent.
//
// Record is not safe for concurrent use. Callers owning the same key from
// several goroutines must serialize access themselves.
type Record[V any] struct {
	store  Store
	key    string
	logger zerolog.Logger

	serialize    func(field string, value V) (string, error)
	deserialize  func(field string, wire string) (V, error)
	shouldDelete DeletePredicate[V]
	equal        EqualFunc[V]

	fields    map[string]V
	dirty     map[string]struct{}
	persisted bool
}

type createRecordParams[V any] struct {
	serialize    func(field string, value V) (string, error)
	deserialize  func(field string, wire string) (V, error)
	isAbsent     func(value V) bool
	shouldDelete DeletePredicate[V]
	equal        EqualFunc[V]
	logger       zerolog.Logger
}

func defaultCreateRecordParams[V any]() createRecordParams[V] {
	c := codec.JSON[V]{}
	return createRecordParams[V]{
		serialize:   c.Serialize,
		deserialize: c.Deserialize,
		isAbsent:    c.IsAbsent,
		equal:       sameValue[V],
		logger: zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).
			Level(zerolog.InfoLevel).
			With().
			Timestamp().
			Str("scope", "dirtyhash_record").
			Logger(),
	}
}

// New creates empty unpersisted record for key.
// Call Load to fill it from store.
func New[V any](
	store Store,
	key string,
	opts ...options.Option[createRecordParams[V]],
) (*Record[V], error) {
	if store == nil {
		return nil, ConfigurationError{Param: "store"}
	}
	if key == "" {
		return nil, ConfigurationError{Param: "key"}
	}

	params := defaultCreateRecordParams[V]()
	if err := options.ApplyOptions(&params, opts...); err != nil {
		return nil, fmt.Errorf("applying opts: %w", err)
	}

	if params.shouldDelete == nil {
		isAbsent := params.isAbsent
		params.shouldDelete = func(_ string, value V) bool {
			return isAbsent(value)
		}
	}

	return &Record[V]{
		store:        store,
		key:          key,
		logger:       params.logger.With().Str("key", key).Logger(),
		serialize:    params.serialize,
		deserialize:  params.deserialize,
		shouldDelete: params.shouldDelete,
		equal:        params.equal,
		fields:       map[string]V{},
		dirty:        map[string]struct{}{},
	}, nil
}

func (rec *Record[V]) Key() string {
	return rec.key
}

// Persisted reports whether last Load or Synchronize succeeded and no Destroy happened since.
// Concurrent external writers are not accounted for.
func (rec *Record[V]) Persisted() bool {
	return rec.persisted
}

// Dirty returns sorted names of fields pending synchronization.
func (rec *Record[V]) Dirty() []string {
	res := lo.Keys(rec.dirty)
	slices.Sort(res)
	return res
}

func (rec *Record[V]) IsDirty(field string) bool {
	_, found := rec.dirty[field]
	return found
}

// Load replaces all local state with remote hash contents.
//
// Fields are decoded into a buffer first: on DecodeError local state is left
// as it was before the call.
func (rec *Record[V]) Load(ctx context.Context) error {
	rec.logger.Debug().Str("action", "load").Send()

	wire, err := rec.store.ReadAllFields(ctx, rec.key)
	if err != nil {
		return StoreError{Op: "read all fields", Key: rec.key, Err: err}
	}

	fields := make(map[string]V, len(wire))
	for field, raw := range wire {
		v, err := rec.deserialize(field, raw)
		if err != nil {
			return DecodeError{Field: field, Raw: raw, Err: err}
		}
		fields[field] = v
	}

	rec.fields = fields
	rec.dirty = map[string]struct{}{}
	rec.persisted = true

	rec.logger.Debug().Str("action", "load").Int("fields", len(fields)).Msg("loaded")
	return nil
}

// SetField assigns value locally.
// Field becomes dirty only if value differs from current one or field had no value.
func (rec *Record[V]) SetField(field string, value V) *Record[V] {
	prev, found := rec.fields[field]
	if found && rec.equal(prev, value) {
		return rec
	}

	rec.fields[field] = value
	rec.dirty[field] = struct{}{}
	return rec
}

func (rec *Record[V]) SetFields(fields map[string]V) *Record[V] {
	for field, value := range fields {
		rec.SetField(field, value)
	}
	return rec
}

// UnsetField drops field locally and schedules its removal from store.
func (rec *Record[V]) UnsetField(field string) *Record[V] {
	if _, found := rec.fields[field]; !found {
		return rec
	}

	delete(rec.fields, field)
	rec.dirty[field] = struct{}{}
	return rec
}

// GetField returns current value of field.
// Zero value and false mean field has no value.
func (rec *Record[V]) GetField(field string) (V, bool) {
	v, found := rec.fields[field]
	return v, found
}

// GetFields returns requested fields. Missing ones map to zero value.
func (rec *Record[V]) GetFields(fields ...string) map[string]V {
	res := make(map[string]V, len(fields))
	for _, field := range fields {
		res[field] = rec.fields[field]
	}
	return res
}

// GetAll returns copy of all fields.
func (rec *Record[V]) GetAll() map[string]V {
	return maps.Clone(rec.fields)
}

// Synchronize writes dirty fields to store.
//
// Fields to keep are set first, then fields to drop are deleted, each with at
// most one store call. If set succeeds but delete fails, only the pending
// deletes stay dirty and a retry issues just the delete call.
func (rec *Record[V]) Synchronize(ctx context.Context) error {
	toSet, toDelete, err := rec.partitionDirty()
	if err != nil {
		return err
	}

	rec.logger.
		Debug().
		Str("action", "synchronize").
		Int("to_set", len(toSet)).
		Int("to_delete", len(toDelete)).
		Send()

	if len(toSet) > 0 {
		if err := rec.store.SetFields(ctx, rec.key, toSet); err != nil {
			return StoreError{Op: "set fields", Key: rec.key, Err: err}
		}
		for field := range toSet {
			delete(rec.dirty, field)
		}
	}

	if len(toDelete) > 0 {
		if err := rec.store.DeleteFields(ctx, rec.key, toDelete); err != nil {
			return StoreError{Op: "delete fields", Key: rec.key, Err: err}
		}
		for _, field := range toDelete {
			delete(rec.dirty, field)
		}
	}

	rec.persisted = true
	return nil
}

func (rec *Record[V]) partitionDirty() (map[string]string, []string, error) {
	toSet := map[string]string{}
	toDelete := []string{}

	for _, field := range rec.Dirty() {
		value, found := rec.fields[field]
		if !found || rec.shouldDelete(field, value) {
			toDelete = append(toDelete, field)
			continue
		}

		wire, err := rec.serialize(field, value)
		if err != nil {
			return nil, nil, EncodeError{Field: field, Value: value, Err: err}
		}
		toSet[field] = wire
	}

	return toSet, toDelete, nil
}

// Destroy deletes remote hash.
// Local fields are kept and all of them become dirty, so next Synchronize recreates the hash.
func (rec *Record[V]) Destroy(ctx context.Context) error {
	rec.logger.Debug().Str("action", "destroy").Send()

	if err := rec.store.DeleteKey(ctx, rec.key); err != nil {
		return StoreError{Op: "delete key", Key: rec.key, Err: err}
	}

	rec.persisted = false
	rec.dirty = make(map[string]struct{}, len(rec.fields))
	for field := range rec.fields {
		rec.dirty[field] = struct{}{}
	}

	return nil
}

// sameValue compares comparable values with ==.
// Maps, slices and funcs are the same only if they share underlying storage.
func sameValue[V any](a, b V) bool {
	av, bv := reflect.ValueOf(any(a)), reflect.ValueOf(any(b))
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}
	if av.Comparable() {
		return av.Equal(bv)
	}

	switch av.Kind() {
	case reflect.Map, reflect.Func:
		return av.Pointer() == bv.Pointer()
	case reflect.Slice:
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	default:
		return false
	}
}
