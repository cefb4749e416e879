package model

import (
	"encoding/json"
	"strconv"

	"github.com/chemstack/pugrest/pkg/common/code"
)

// URN identifies a computed property inside a record. Only the keys used
// for filtering are modeled as typed fields; everything else rides along.
type URN struct {
	Label          string `json:"label"`
	Name           string `json:"name,omitempty"`
	DataType       int    `json:"datatype,omitempty"`
	Implementation string `json:"implementation,omitempty"`
	Version        string `json:"version,omitempty"`
	Software       string `json:"software,omitempty"`
	Source         string `json:"source,omitempty"`
	Release        string `json:"release,omitempty"`
	Parameters     string `json:"parameters,omitempty"`
}

// ValueKind tells which payload a Value carries.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueFloat
	ValueString
	ValueBinary
	ValueIntList
	ValueFloatList
	ValueStringList
)

// Value is the typed payload of a property entry. The backend wraps every
// payload in a single-key object (ival, fval, sval, binary, ivec, fvec or
// slist); numeric fields may arrive as JSON strings depending on the
// schema version, so the accessors coerce rather than the decoder.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
	il   []int64
	fl   []float64
	sl   []string
}

type rawValue struct {
	IVal   *json.Number  `json:"ival,omitempty"`
	FVal   *json.Number  `json:"fval,omitempty"`
	SVal   *string       `json:"sval,omitempty"`
	Binary *string       `json:"binary,omitempty"`
	IVec   []json.Number `json:"ivec,omitempty"`
	FVec   []json.Number `json:"fvec,omitempty"`
	SList  []string      `json:"slist,omitempty"`
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw rawValue
	if err := json.Unmarshal(data, &raw); err != nil {
		// Coerce "ival": "12" style string payloads by retrying with the
		// numeric fields as plain strings.
		var loose struct {
			IVal *string `json:"ival,omitempty"`
			FVal *string `json:"fval,omitempty"`
		}
		if err2 := json.Unmarshal(data, &loose); err2 != nil {
			return code.ResponseParseErr.WithErr(err)
		}
		if loose.IVal != nil {
			n := json.Number(*loose.IVal)
			raw.IVal = &n
		}
		if loose.FVal != nil {
			n := json.Number(*loose.FVal)
			raw.FVal = &n
		}
	}

	switch {
	case raw.IVal != nil:
		n, err := raw.IVal.Int64()
		if err != nil {
			return code.ResponseParseErr.WithErr(err)
		}
		*v = Value{kind: ValueInt, i: n}
	case raw.FVal != nil:
		n, err := raw.FVal.Float64()
		if err != nil {
			return code.ResponseParseErr.WithErr(err)
		}
		*v = Value{kind: ValueFloat, f: n}
	case raw.SVal != nil:
		*v = Value{kind: ValueString, s: *raw.SVal}
	case raw.Binary != nil:
		*v = Value{kind: ValueBinary, s: *raw.Binary}
	case raw.IVec != nil:
		il := make([]int64, len(raw.IVec))
		for i, n := range raw.IVec {
			x, err := n.Int64()
			if err != nil {
				return code.ResponseParseErr.WithErr(err)
			}
			il[i] = x
		}
		*v = Value{kind: ValueIntList, il: il}
	case raw.FVec != nil:
		fl := make([]float64, len(raw.FVec))
		for i, n := range raw.FVec {
			x, err := n.Float64()
			if err != nil {
				return code.ResponseParseErr.WithErr(err)
			}
			fl[i] = x
		}
		*v = Value{kind: ValueFloatList, fl: fl}
	case raw.SList != nil:
		*v = Value{kind: ValueStringList, sl: raw.SList}
	default:
		*v = Value{kind: ValueNone}
	}
	return nil
}

// Kind reports the payload type.
func (v Value) Kind() ValueKind { return v.kind }

// Float64 coerces the payload to a float. Native ints and floats convert
// directly; string payloads are parsed, so "180.16" and 180.16 behave the
// same. The bool is false when the payload cannot be read as a number.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case ValueFloat:
		return v.f, true
	case ValueInt:
		return float64(v.i), true
	case ValueString, ValueBinary:
		f, err := strconv.ParseFloat(v.s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int64 coerces the payload to an integer, parsing numeric strings and
// truncating whole floats. The bool is false when the payload is not an
// integral number.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case ValueInt:
		return v.i, true
	case ValueFloat:
		n := int64(v.f)
		return n, float64(n) == v.f
	case ValueString, ValueBinary:
		n, err := strconv.ParseInt(v.s, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// String returns the raw string payload for sval and binary entries only.
// Numbers deliberately do not stringify here.
func (v Value) String() (string, bool) {
	if v.kind == ValueString || v.kind == ValueBinary {
		return v.s, true
	}
	return "", false
}

// Floats returns the float-vector payload.
func (v Value) Floats() ([]float64, bool) {
	if v.kind == ValueFloatList {
		return v.fl, true
	}
	return nil, false
}

// Ints returns the int-vector payload.
func (v Value) Ints() ([]int64, bool) {
	if v.kind == ValueIntList {
		return v.il, true
	}
	return nil, false
}

// Strings returns the string-list payload.
func (v Value) Strings() ([]string, bool) {
	if v.kind == ValueStringList {
		return v.sl, true
	}
	return nil, false
}

// PropertyEntry is one urn-tagged property in a record.
type PropertyEntry struct {
	URN   URN   `json:"urn"`
	Value Value `json:"value"`
}

// Properties is the ordered property list of a record or conformer.
type Properties []PropertyEntry

// PropFilter selects entries by urn keys. An empty field means "don't
// care"; a set field must match the urn exactly, and a urn missing that
// key never matches.
type PropFilter struct {
	Label          string
	Name           string
	Implementation string
}

func (f PropFilter) matches(u URN) bool {
	if f.Label != "" && u.Label != f.Label {
		return false
	}
	if f.Name != "" && u.Name != f.Name {
		return false
	}
	if f.Implementation != "" && u.Implementation != f.Implementation {
		return false
	}
	return true
}

// Find returns the value of the first entry matching every set filter key.
// The bool distinguishes "no such property" from a present entry whose
// payload happens to be empty.
func (ps Properties) Find(f PropFilter) (Value, bool) {
	for _, p := range ps {
		if f.matches(p.URN) {
			return p.Value, true
		}
	}
	return Value{}, false
}

// FindAll returns the values of every matching entry, in record order.
func (ps Properties) FindAll(f PropFilter) []Value {
	var out []Value
	for _, p := range ps {
		if f.matches(p.URN) {
			out = append(out, p.Value)
		}
	}
	return out
}
