package store

import (
	"reflect"
	"strings"
	"sync"

	"rds/internal/enum"
)

var schemaCache sync.Map // reflect.Type -> map[string]enum.FieldType

// fieldTypes walks t's exported fields (descending into anonymous
// embeds such as Envelope) and returns the semantic FieldType each
// field's `rds:"coerce=..."` tag declares, defaulting to String. Field
// names are taken from the `yaml` tag when present, so the schema
// lines up with the on-disk record shape the filter/update map uses.
func fieldTypes(t reflect.Type) map[string]enum.FieldType {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(map[string]enum.FieldType)
	}

	out := map[string]enum.FieldType{}
	var walk func(reflect.Type)
	walk = func(t reflect.Type) {
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if f.Anonymous {
				walk(f.Type)
				continue
			}
			name := yamlName(f)
			if name == "-" {
				continue
			}
			ft := enum.FieldTypeString
			if tag, ok := f.Tag.Lookup("rds"); ok {
				if v, found := strings.CutPrefix(tag, "coerce="); found {
					ft = enum.FieldType(v)
				}
			}
			out[name] = ft
		}
	}
	walk(t)

	schemaCache.Store(t, out)
	return out
}

func yamlName(f reflect.StructField) string {
	tag := f.Tag.Get("yaml")
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}
