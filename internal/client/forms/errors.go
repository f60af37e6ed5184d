package forms

import "sort"

// SubmitField keys the form-level error shown above the fields.
const SubmitField = "submit"

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// Clear drops the message for field, as when the user edits it.
func (f FieldErrors) Clear(field string) {
	delete(f, field)
}

func (f FieldErrors) Get(field string) string {
	return f[field]
}

func (f FieldErrors) SetSubmit(msg string) {
	f[SubmitField] = msg
}

func (f FieldErrors) Submit() string {
	return f[SubmitField]
}

// Empty reports whether there are no field or submit errors.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Fields returns the field names with errors, submit excluded, sorted.
func (f FieldErrors) Fields() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		if k != SubmitField {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
