package services

import (
	"strconv"

	"github.com/fichasrpg/fichas/internal/models"
)

// Stored representations for boolean fields. An HTML checkbox submits "on"
// when checked and nothing at all when unchecked, so presence of "on" is
// the only truthy signal the form can carry.
const (
	BoolStoredTrue  = "Yes"
	BoolStoredFalse = "No"
	checkboxOn      = "on"
)

// TypedValue is the decoded form of a stored value: a tagged union over
// the declared field types. Raw always keeps the stored text untouched so
// re-rendering is byte-exact.
type TypedValue struct {
	Kind string
	Raw  string
	Int  int64
	Bool bool
}

// EncodeFieldValue maps a raw submitted form value to the canonical stored
// string for a field of the given type. Text and integer fields pass
// through verbatim (integer values get no numeric validation here; only
// the character level is coerced). Boolean fields translate the checkbox
// convention into the literal strings "Yes"/"No".
func EncodeFieldValue(fieldType, raw string) string {
	if fieldType == models.FieldTypeBoolean {
		if raw == checkboxOn {
			return BoolStoredTrue
		}
		return BoolStoredFalse
	}
	return raw
}

// DecodeFieldValue interprets a stored string according to the field type.
func DecodeFieldValue(fieldType, stored string) TypedValue {
	v := TypedValue{Kind: fieldType, Raw: stored}
	switch fieldType {
	case models.FieldTypeBoolean:
		v.Bool = stored == BoolStoredTrue
	case models.FieldTypeInteger:
		// Lenient: the store never validated these, so junk decodes to 0
		// while Raw preserves whatever was written.
		if n, err := strconv.ParseInt(stored, 10, 64); err == nil {
			v.Int = n
		}
	}
	return v
}

// Display returns what the edit form and sheet views show for the value.
func (v TypedValue) Display() string {
	return v.Raw
}

// Checked reports whether a boolean field should render its checkbox
// checked: exactly when the stored text is "Yes".
func (v TypedValue) Checked() bool {
	return v.Kind == models.FieldTypeBoolean && v.Bool
}
