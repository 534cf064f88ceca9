package layout

// FieldSelector selects a field of a Record or Tuple. It is a distinct kind of
// value from a row position so the two can never be confused.
type FieldSelector interface {
	fieldSelector()
}

// FieldName selects a Record field by name. Tuples accept decimal names such
// as "0".
type FieldName string

// FieldIndex selects a field by position.
type FieldIndex int

func (FieldName) fieldSelector()  {}
func (FieldIndex) fieldSelector() {}

// Field projects n onto one field. Lists, indexed views, option wrappers and
// unions are preserved around the projected field, so the result has the same
// outer structure as n.
func Field(n Node, sel FieldSelector) (Node, error) {
	return n.project(sel)
}
