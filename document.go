package logbook

import (
	"encoding/json"
	"io"
	"math"

	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/util"
	flat2 "github.com/nqd/flat"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// IDField is the identity field carried by every record in a journal.
// Its value is an integer that is unique within a collection; uniqueness
// is trusted, not enforced.
const IDField = "_id"

// Document is a single record: a JSON object wrapped around a gjson result
type Document struct {
	result gjson.Result
}

// UnmarshalJSON satisfies the json Unmarshaler interface
func (d *Document) UnmarshalJSON(bytes []byte) error {
	doc, err := NewDocumentFromBytes(bytes)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// MarshalJSON satisfies the json Marshaler interface
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.Bytes(), nil
}

// NewDocument creates a new empty json document
func NewDocument() *Document {
	parsed := gjson.Parse("{}")
	return &Document{
		result: parsed,
	}
}

// NewDocumentFromBytes creates a new document from the given json bytes
func NewDocumentFromBytes(json []byte) (*Document, error) {
	if !gjson.ValidBytes(json) {
		return nil, errors.New(errors.Validation, "invalid json: %s", string(json))
	}
	d := &Document{
		result: gjson.ParseBytes(json),
	}
	if !d.Valid() {
		return nil, errors.New(errors.Validation, "invalid document")
	}
	return d, nil
}

// NewDocumentFrom creates a new document from the given value - the value must be json compatible.
// Map inputs may use dot notation keys; they are unflattened into nested objects.
func NewDocumentFrom(value any) (*Document, error) {
	switch value := value.(type) {
	case map[string]any:
		unflattened, err := flat2.Unflatten(value, nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "failed to unflatten map: %#v", value)
		}
		bits, err := json.Marshal(unflattened)
		if err != nil {
			return nil, errors.New(errors.Validation, "failed to json encode value: %#v", value)
		}
		return NewDocumentFromBytes(bits)
	default:
		bits, err := json.Marshal(value)
		if err != nil {
			return nil, errors.New(errors.Validation, "failed to json encode value: %#v", value)
		}
		return NewDocumentFromBytes(bits)
	}
}

// Valid returns whether the document is a valid json object
func (d *Document) Valid() bool {
	return gjson.ValidBytes(d.Bytes()) && !d.result.IsArray()
}

// String returns the document as a json string
func (d *Document) String() string {
	return d.result.Raw
}

// Bytes returns the document as json bytes
func (d *Document) Bytes() []byte {
	return []byte(d.result.Raw)
}

// Value returns the document as a map
func (d *Document) Value() map[string]any {
	return cast.ToStringMap(d.result.Value())
}

// Clone allocates a new document with identical values
func (d *Document) Clone() *Document {
	raw := d.result.Raw
	return &Document{result: gjson.Parse(raw)}
}

// ID returns the value of the document's identity field
func (d *Document) ID() int64 {
	return d.result.Get(IDField).Int()
}

// HasID returns whether the document carries an integer identity field
func (d *Document) HasID() bool {
	id := d.result.Get(IDField)
	return id.Exists() && id.Type == gjson.Number && id.Num == math.Trunc(id.Num)
}

// Get gets a field on the document. Get has GJSON syntax support and supports dot notation
func (d *Document) Get(field string) any {
	return d.result.Get(field).Value()
}

// GetString gets a string field value on the document. GetString has GJSON syntax support and supports dot notation
func (d *Document) GetString(field string) string {
	return d.result.Get(field).String()
}

// GetBool gets a bool field value on the document. GetBool has GJSON syntax support and supports dot notation
func (d *Document) GetBool(field string) bool {
	return cast.ToBool(d.Get(field))
}

// GetFloat gets a float field value on the document. GetFloat has GJSON syntax support and supports dot notation
func (d *Document) GetFloat(field string) float64 {
	return cast.ToFloat64(d.Get(field))
}

// GetArray gets an array field on the document. GetArray has GJSON syntax support and supports dot notation
func (d *Document) GetArray(field string) []any {
	return cast.ToSlice(d.Get(field))
}

// Exists returns whether the field is present on the document
func (d *Document) Exists(field string) bool {
	return d.result.Get(field).Exists()
}

// Set sets a field on the document. Dot notation is supported.
func (d *Document) Set(field string, val any) error {
	return d.SetAll(map[string]any{
		field: val,
	})
}

func (d *Document) set(field string, val any) error {
	var (
		result string
		err    error
	)
	switch val := val.(type) {
	case gjson.Result:
		result, err = sjson.Set(d.result.Raw, field, val.Value())
	case []byte:
		result, err = sjson.SetRaw(d.result.Raw, field, string(val))
	default:
		result, err = sjson.Set(d.result.Raw, field, val)
	}
	if err != nil {
		return err
	}
	if !gjson.Valid(result) {
		return errors.New(errors.Validation, "invalid document")
	}
	d.result = gjson.Parse(result)
	return nil
}

// SetAll sets all fields on the document. Dot notation is supported.
func (d *Document) SetAll(values map[string]any) error {
	var err error
	for k, v := range values {
		err = d.set(k, v)
		if err != nil {
			return err
		}
	}
	return nil
}

// Merge merges the document with the provided document. This is not an overwrite.
func (d *Document) Merge(with *Document) error {
	if !with.Valid() {
		return errors.New(errors.Validation, "invalid document")
	}
	withMap := with.Value()
	flattened, err := flat2.Flatten(withMap, nil)
	if err != nil {
		return err
	}
	return d.SetAll(flattened)
}

// Del deletes a field from the document
func (d *Document) Del(field string) error {
	return d.DelAll(field)
}

// DelAll deletes fields from the document
func (d *Document) DelAll(fields ...string) error {
	for _, field := range fields {
		result, err := sjson.Delete(d.result.Raw, field)
		if err != nil {
			return err
		}
		d.result = gjson.Parse(result)
	}
	return nil
}

// Select reduces the document to the requested fields. Requested fields
// that are absent from the document are omitted, not defaulted to null.
// The identity field is not implicitly retained. An empty field list or
// a '*' entry leaves the document untouched.
func (d *Document) Select(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	patch := map[string]any{}
	for _, field := range fields {
		if field == "*" {
			return nil
		}
		result := d.result.Get(field)
		if result.Exists() {
			patch[field] = result.Value()
		}
	}
	return d.overwrite(patch)
}

func (d *Document) overwrite(values map[string]any) error {
	doc, err := NewDocumentFrom(values)
	if err != nil {
		return err
	}
	d.result = doc.result
	return nil
}

// FieldPaths returns the paths to fields & nested fields in dot notation format
func (d *Document) FieldPaths() []string {
	paths := &[]string{}
	d.paths(d.result, paths)
	return *paths
}

func (d *Document) paths(result gjson.Result, pathValues *[]string) {
	result.ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() {
			d.paths(value, pathValues)
		} else {
			*pathValues = append(*pathValues, value.Path(d.result.Raw))
		}
		return true
	})
}

// Scan scans the json document into the value
func (d *Document) Scan(value any) error {
	return util.Decode(d.Value(), &value)
}

// Encode encodes the json document to the io writer
func (d *Document) Encode(w io.Writer) error {
	_, err := w.Write(d.Bytes())
	if err != nil {
		return errors.Wrap(err, 0, "failed to encode document")
	}
	return nil
}

// Documents is an ordered array of documents
type Documents []*Document

// Slice slices the documents into a subarray of documents
func (documents Documents) Slice(start, end int) Documents {
	return lo.Slice[*Document](documents, start, end)
}

// Filter applies the filter function against the documents
func (documents Documents) Filter(predicate func(document *Document, i int) bool) Documents {
	return lo.Filter[*Document](documents, predicate)
}

// Map applies the mapper function against the documents
func (documents Documents) Map(mapper func(t *Document, i int) *Document) Documents {
	return lo.Map[*Document, *Document](documents, mapper)
}

// ForEach applies the function to each document in the documents
func (documents Documents) ForEach(fn func(next *Document, i int)) {
	lo.ForEach[*Document](documents, fn)
}

// IDs returns the identity field values of the documents in order
func (documents Documents) IDs() []int64 {
	return lo.Map[*Document, int64](documents, func(d *Document, _ int) int64 {
		return d.ID()
	})
}

// Fields returns the set of field paths present across the documents.
// Query classification uses it to decide whether a selector key names a
// real field.
func (documents Documents) Fields() map[string]struct{} {
	fields := make(map[string]struct{})
	for _, document := range documents {
		for _, path := range document.FieldPaths() {
			fields[path] = struct{}{}
		}
	}
	return fields
}

// Union merges the documents with the others, deduplicating by identity.
// The first document seen for a given identity wins and result order is
// first-appearance order; the result is not re-sorted.
func (documents Documents) Union(others Documents) Documents {
	var (
		seen   = make(map[int64]struct{}, len(documents)+len(others))
		merged = make(Documents, 0, len(documents)+len(others))
	)
	for _, set := range []Documents{documents, others} {
		for _, document := range set {
			if _, ok := seen[document.ID()]; ok {
				continue
			}
			seen[document.ID()] = struct{}{}
			merged = append(merged, document)
		}
	}
	return merged
}

// Intersect returns the documents whose identities appear in both sets,
// preserving the receiver's order.
func (documents Documents) Intersect(others Documents) Documents {
	ids := make(map[int64]struct{}, len(others))
	for _, document := range others {
		ids[document.ID()] = struct{}{}
	}
	return documents.Filter(func(document *Document, i int) bool {
		_, ok := ids[document.ID()]
		return ok
	})
}
