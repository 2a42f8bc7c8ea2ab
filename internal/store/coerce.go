package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"rds/internal/enum"
)

// timeLayout is used for both serializing and re-parsing Instant values
// so that coercion round-trips idempotently (see coerce_test.go).
const timeLayout = time.RFC3339Nano

// Value is the tagged union the design notes describe: a coerced
// filter/update value carries both its semantic kind and its typed
// payload, so callers never have to re-sniff a bare interface{}.
type Value struct {
	Kind    enum.FieldType
	Str     string
	UUID    uuid.UUID
	Instant time.Time
	Int     int64
	Bool    bool
	ok      bool
}

// OK reports whether the coercion succeeded. A failed coercion still
// carries the original string in Str so callers that fall back to
// string comparison keep working.
func (v Value) OK() bool { return v.ok }

// Coerce attempts to interpret raw as the given semantic field type.
// On failure it returns a Value with OK()==false and Str set to the
// original value's string form unchanged, per the store's "schemaless
// on read" contract: a filter that cannot be coerced simply never
// matches, it does not error out.
func Coerce(raw any, ft enum.FieldType) Value {
	s := toString(raw)
	switch ft {
	case enum.FieldTypeUUID:
		if id, ok := raw.(uuid.UUID); ok {
			return Value{Kind: ft, UUID: id, Str: id.String(), ok: true}
		}
		if id, err := uuid.Parse(s); err == nil {
			return Value{Kind: ft, UUID: id, Str: id.String(), ok: true}
		}
		return Value{Kind: ft, Str: s}

	case enum.FieldTypeInstant:
		if t, ok := raw.(time.Time); ok {
			return Value{Kind: ft, Instant: t, Str: t.Format(timeLayout), ok: true}
		}
		if t, err := time.Parse(timeLayout, s); err == nil {
			return Value{Kind: ft, Instant: t, Str: t.Format(timeLayout), ok: true}
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return Value{Kind: ft, Instant: t, Str: t.Format(timeLayout), ok: true}
		}
		return Value{Kind: ft, Str: s}

	case enum.FieldTypeInt:
		switch v := raw.(type) {
		case int:
			return Value{Kind: ft, Int: int64(v), Str: s, ok: true}
		case int64:
			return Value{Kind: ft, Int: v, Str: s, ok: true}
		case float64:
			return Value{Kind: ft, Int: int64(v), Str: s, ok: true}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Value{Kind: ft, Int: n, Str: s, ok: true}
		}
		return Value{Kind: ft, Str: s}

	case enum.FieldTypeBool:
		if b, ok := raw.(bool); ok {
			return Value{Kind: ft, Bool: b, Str: s, ok: true}
		}
		if b, err := strconv.ParseBool(s); err == nil {
			return Value{Kind: ft, Bool: b, Str: s, ok: true}
		}
		return Value{Kind: ft, Str: s}

	case enum.FieldTypeEnum:
		return Value{Kind: ft, Str: s, ok: s != ""}

	default:
		return Value{Kind: enum.FieldTypeString, Str: s, ok: true}
	}
}

// Equal reports whether two coerced values of the same field represent
// the same logical value. Two values that both failed to coerce are
// never equal, even if their raw strings match: a type mismatch must
// silently fail to match, per the store contract.
func (v Value) Equal(other Value) bool {
	if !v.ok || !other.ok {
		return false
	}
	switch v.Kind {
	case enum.FieldTypeUUID:
		return v.UUID == other.UUID
	case enum.FieldTypeInstant:
		return v.Instant.Equal(other.Instant)
	case enum.FieldTypeInt:
		return v.Int == other.Int
	case enum.FieldTypeBool:
		return v.Bool == other.Bool
	default:
		return v.Str == other.Str
	}
}

func toString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
