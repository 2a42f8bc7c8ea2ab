package entity

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Update is implemented by every kind's partial-update companion
// (DatasetUpdate, RuntimeUpdate, JobUpdate, ...). TargetUID identifies
// which record the update applies to.
type Update interface {
	TargetUID() uuid.UUID
}

// ApplyUpdate merges the non-nil optional fields of update onto target,
// following the rules in the entity model:
//
//   - a mismatched uid fails with ErrInvalidUpdate wrapping ErrMismatch,
//     the same sentinel store.go's own update path returns
//   - applying a full entity of a different kind fails with ErrInvalidUpdate
//   - inPlace=false returns a modified clone, leaving target untouched
//
// Matching is by exported field name: any pointer field on update whose
// name matches a field on target (including fields promoted from the
// embedded Envelope) is dereferenced and copied across. This mirrors
// the generated SetNillable* setters an ORM would produce for a partial
// update object, generalized to a single reflective merge instead of
// one setter per field per kind.
func ApplyUpdate[T Kind](target T, update Update, inPlace bool) (T, error) {
	if update.TargetUID() != target.GetUID() {
		return target, fmt.Errorf("%w: %w: update uid %s does not match target uid %s",
			ErrInvalidUpdate, ErrMismatch, update.TargetUID(), target.GetUID())
	}

	if full, ok := update.(Kind); ok && full.KindName() != target.KindName() {
		return target, fmt.Errorf("%w: cannot apply a %s onto a %s",
			ErrInvalidUpdate, full.KindName(), target.KindName())
	}

	dst := target
	if !inPlace {
		dst = cloneValue(target)
	}

	dstPtr := reflect.ValueOf(&dst).Elem()
	updVal := reflect.ValueOf(update)
	for updVal.Kind() == reflect.Pointer {
		updVal = updVal.Elem()
	}

	if updVal.Kind() != reflect.Struct {
		return dst, nil
	}

	updType := updVal.Type()
	for i := 0; i < updType.NumField(); i++ {
		f := updType.Field(i)
		if !f.IsExported() || f.Name == "UID" {
			continue
		}
		fv := updVal.Field(i)
		if fv.Kind() != reflect.Pointer || fv.IsNil() {
			continue
		}
		target := findField(dstPtr, f.Name)
		if !target.IsValid() || !target.CanSet() {
			continue
		}
		val := fv.Elem()
		switch {
		case target.Type() == val.Type():
			// update field is *X, target field is X: set the pointed-to value.
			target.Set(val)
		case target.Type() == fv.Type():
			// update field is *X, target field is also *X (already optional):
			// assign the pointer itself.
			target.Set(fv)
		}
	}

	if updatedAt := findField(dstPtr, "UpdatedAt"); updatedAt.IsValid() && updatedAt.CanSet() {
		updatedAt.Set(reflect.ValueOf(time.Now().UTC()))
	}

	return dst, nil
}

// findField looks up name on v, descending into anonymous (embedded)
// struct fields such as Envelope.
func findField(v reflect.Value, name string) reflect.Value {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	if f := v.FieldByName(name); f.IsValid() {
		return f
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Anonymous {
			if f := findField(v.Field(i), name); f.IsValid() {
				return f
			}
		}
	}
	return reflect.Value{}
}

func cloneValue[T any](v T) T {
	clone := v
	return clone
}
