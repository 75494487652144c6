package dirtyhash

import (
	"errors"

	"github.com/horockey/go-toolbox/options"
	"github.com/rs/zerolog"
)

// Sets codec for serialize, deserialize and absence check at once.
// Default is codec.JSON.
func WithCodec[V any](c Codec[V]) options.Option[createRecordParams[V]] {
	return func(target *createRecordParams[V]) error {
		if c == nil {
			return errors.New("got nil codec")
		}
		target.serialize = c.Serialize
		target.deserialize = c.Deserialize
		target.isAbsent = c.IsAbsent
		return nil
	}
}

// Overrides serialization only.
func WithSerializeFunc[V any](f func(field string, value V) (string, error)) options.Option[createRecordParams[V]] {
	return func(target *createRecordParams[V]) error {
		if f == nil {
			return errors.New("got nil serialize func")
		}
		target.serialize = f
		return nil
	}
}

// Overrides deserialization only.
func WithDeserializeFunc[V any](f func(field string, wire string) (V, error)) options.Option[createRecordParams[V]] {
	return func(target *createRecordParams[V]) error {
		if f == nil {
			return errors.New("got nil deserialize func")
		}
		target.deserialize = f
		return nil
	}
}

// Sets custom deletion policy.
// By default field is deleted when codec considers its value absent.
func WithDeletePredicate[V any](p DeletePredicate[V]) options.Option[createRecordParams[V]] {
	return func(target *createRecordParams[V]) error {
		if p == nil {
			return errors.New("got nil delete predicate")
		}
		target.shouldDelete = p
		return nil
	}
}

// Sets custom value comparison for dirty tracking.
// Default compares comparable values with == and maps, slices and funcs by identity.
func WithEqualFunc[V any](f EqualFunc[V]) options.Option[createRecordParams[V]] {
	return func(target *createRecordParams[V]) error {
		if f == nil {
			return errors.New("got nil equal func")
		}
		target.equal = f
		return nil
	}
}

// Sets custom logger.
// Default is stdout logger, info level.
func WithLogger[V any](l zerolog.Logger) options.Option[createRecordParams[V]] {
	return func(target *createRecordParams[V]) error {
		target.logger = l
		return nil
	}
}
