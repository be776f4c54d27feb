package generator

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidFieldSet is returned when the payload is not a JSON object.
var ErrInvalidFieldSet = errors.New("field set must be a JSON object")

// ValueKind tells text values apart from everything else.
type ValueKind int

const (
	KindOther ValueKind = iota
	KindText
)

// FieldValue holds a caller value. Only KindText values carry Text.
type FieldValue struct {
	Kind ValueKind
	Text string
}

func TextValue(s string) FieldValue { return FieldValue{Kind: KindText, Text: s} }

func OtherValue() FieldValue { return FieldValue{Kind: KindOther} }

// Field is one named entry of a FieldSet.
type Field struct {
	Name  string
	Value FieldValue
}

// FieldSet keeps caller fields in the order they were supplied.
type FieldSet []Field

// ParseFieldSet decodes a JSON object in document order. Numbers, booleans,
// null, arrays and nested objects become KindOther. A repeated key keeps the
// position of its first occurrence and the value of its last.
func ParseFieldSet(data []byte) (FieldSet, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidFieldSet
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrInvalidFieldSet
	}
	fields := FieldSet{}
	index := make(map[string]int)
	root.ForEach(func(key, value gjson.Result) bool {
		fv := OtherValue()
		if value.Type == gjson.String {
			fv = TextValue(value.String())
		}
		name := key.String()
		if i, ok := index[name]; ok {
			fields[i].Value = fv
			return true
		}
		index[name] = len(fields)
		fields = append(fields, Field{Name: name, Value: fv})
		return true
	})
	return fields, nil
}
