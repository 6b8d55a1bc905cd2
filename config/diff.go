package config

import "reflect"

// diffEvent builds the change event between two configs. Changed keys are
// dotted field paths ("Server.Addr"); non-struct values are compared whole.
func diffEvent(old, new any) Event {
	evt := Event{OldConfig: old, NewConfig: new}
	if old == nil || new == nil {
		return evt
	}

	oldVal := indirect(reflect.ValueOf(old))
	newVal := indirect(reflect.ValueOf(new))
	if oldVal.Kind() != reflect.Struct || newVal.Kind() != reflect.Struct || oldVal.Type() != newVal.Type() {
		return evt
	}

	evt.ChangedKeys = diffStruct("", oldVal, newVal, nil)
	return evt
}

func diffStruct(prefix string, oldVal, newVal reflect.Value, out []string) []string {
	t := oldVal.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		key := field.Name
		if prefix != "" {
			key = prefix + "." + key
		}

		o, n := oldVal.Field(i), newVal.Field(i)
		if o.Kind() == reflect.Struct {
			out = diffStruct(key, o, n, out)
			continue
		}
		if !reflect.DeepEqual(o.Interface(), n.Interface()) {
			out = append(out, key)
		}
	}
	return out
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	return v
}
