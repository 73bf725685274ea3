package settings

import (
	"reflect"
)

// diffIgnoredFields never count toward dirtiness: ownership and bookkeeping
// columns change outside the user's control.
var diffIgnoredFields = map[string]bool{
	"UserID":    true,
	"UpdatedAt": true,
}

// ChangedFields compares two values of the same struct type field by field
// and returns the names of exported fields that differ. A dirty check is a
// non-empty result.
func ChangedFields[T any](saved, submitted T) []string {
	sv := reflect.ValueOf(saved)
	nv := reflect.ValueOf(submitted)
	st := sv.Type()

	var changed []string
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if !field.IsExported() || diffIgnoredFields[field.Name] {
			continue
		}
		if !reflect.DeepEqual(sv.Field(i).Interface(), nv.Field(i).Interface()) {
			changed = append(changed, field.Name)
		}
	}
	return changed
}
