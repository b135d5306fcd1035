package logic

import (
	"github.com/tidwall/gjson"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// maxFlattenDepth bounds recursion; objects nested deeper are kept as opaque leaves.
const maxFlattenDepth = 64

// FlatField is one leaf of a flattened record.
type FlatField struct {
	Key   string
	Value gjson.Result
}

// FlatMap maps dot-joined paths to leaf values. Fields keep the depth-first
// document order of the source record, which makes rule resolution stable.
type FlatMap struct {
	fields []FlatField
	index  map[string]int
}

// Flatten projects a nested record into path -> leaf. Objects are expanded,
// arrays are leaves. A nil, empty, null or malformed record yields an empty
// map; a scalar root yields the single key "".
//
// Raw keys are not escaped, so a literal "a.b" and a nested a -> b share the
// path "a.b". The path keeps its first position and the later leaf's value.
func Flatten(record models.Record) FlatMap {
	fm := FlatMap{index: make(map[string]int)}
	if len(record) == 0 || !gjson.ValidBytes(record) {
		return fm
	}

	root := gjson.ParseBytes(record)
	switch {
	case root.Type == gjson.Null:
		return fm
	case root.IsObject():
		fm.walk(root, "", false, 0)
	default:
		fm.put("", root)
	}
	return fm
}

func (fm *FlatMap) walk(obj gjson.Result, prefix string, nested bool, depth int) {
	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if nested {
			key = prefix + "." + key
		}
		if v.IsObject() && depth < maxFlattenDepth {
			fm.walk(v, key, true, depth+1)
		} else {
			fm.put(key, v)
		}
		return true
	})
}

// put keeps the first position of a repeated key and the last value.
func (fm *FlatMap) put(key string, v gjson.Result) {
	if i, ok := fm.index[key]; ok {
		fm.fields[i].Value = v
		return
	}
	fm.index[key] = len(fm.fields)
	fm.fields = append(fm.fields, FlatField{Key: key, Value: v})
}

// Len returns the number of leaves.
func (fm FlatMap) Len() int { return len(fm.fields) }

// Fields returns the leaves in traversal order.
func (fm FlatMap) Fields() []FlatField { return fm.fields }

// Get returns the leaf stored under key.
func (fm FlatMap) Get(key string) (gjson.Result, bool) {
	i, ok := fm.index[key]
	if !ok {
		return gjson.Result{}, false
	}
	return fm.fields[i].Value, true
}

// isScalar reports whether v is a number, string, bool or null leaf.
func isScalar(v gjson.Result) bool {
	return !v.IsObject() && !v.IsArray()
}
