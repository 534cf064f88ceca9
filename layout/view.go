package layout

// RecordView is one row of a Record. It binds the record and a position and
// does not copy field data.
type RecordView struct {
	rec *Record
	at  int
}

// Record returns the backing node.
func (r RecordView) Record() *Record { return r.rec }

// Index returns the row position within the backing node.
func (r RecordView) Index() int { return r.at }

// Fields returns the field names.
func (r RecordView) Fields() []string { return r.rec.fields }

// Field returns the value of the named field.
func (r RecordView) Field(name string) (any, error) {
	k, err := r.rec.FieldIndex(name)
	if err != nil {
		return nil, err
	}
	return r.rec.cell(k, r.at)
}

// At returns the value of field k by position.
func (r RecordView) At(k int) (any, error) {
	if err := checkBounds(k, len(r.rec.contents)); err != nil {
		return nil, err
	}
	return r.rec.cell(k, r.at)
}

// Map returns the row as a map from field name to value. Nested values are
// not converted.
func (r RecordView) Map() (map[string]any, error) {
	out := make(map[string]any, len(r.rec.fields))
	for k, f := range r.rec.fields {
		v, err := r.rec.cell(k, r.at)
		if err != nil {
			return nil, err
		}
		out[f] = v
	}
	return out, nil
}

// TupleView is one row of a Tuple.
type TupleView struct {
	tup *Tuple
	at  int
}

// Tuple returns the backing node.
func (t TupleView) Tuple() *Tuple { return t.tup }

// Index returns the row position within the backing node.
func (t TupleView) Index() int { return t.at }

// Len returns the number of slots.
func (t TupleView) Len() int { return len(t.tup.contents) }

// At returns slot k.
func (t TupleView) At(k int) (any, error) {
	if err := checkBounds(k, len(t.tup.contents)); err != nil {
		return nil, err
	}
	return t.tup.cell(k, t.at)
}
