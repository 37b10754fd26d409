package goquery

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Object is one JSON-LD object. Accessors report absence instead of failing
// on missing keys or unexpected value types.
type Object map[string]any

// Value returns the raw value stored under key.
func (o Object) Value(key string) (any, bool) {
	v, ok := o[key]
	return v, ok && v != nil
}

// String returns the cleaned string stored under key.
// Non-string and blank values are reported as absent.
func (o Object) String(key string) (string, bool) {
	v, ok := o.Value(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = CleanText(s)
	return s, s != ""
}

// Name returns a person-like value stored under key: a plain string, an
// object's "name" field, or the first usable element of an array.
func (o Object) Name(key string) (string, bool) {
	v, ok := o.Value(key)
	if !ok {
		return "", false
	}
	return nameOf(v)
}

func nameOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := CleanText(t)
		return s, s != ""
	case map[string]any:
		return Object(t).String("name")
	case []any:
		for _, item := range t {
			if s, ok := nameOf(item); ok {
				return s, true
			}
		}
	}
	return "", false
}

// JSONLD returns every JSON-LD object embedded in doc, in document order.
// Each script block is decoded independently and malformed blocks are
// skipped. Top-level arrays and @graph members are flattened.
func JSONLD(doc *goquery.Document) []Object {
	var objects []Object
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		objs, err := ParseJSONLD(s.Text())
		if err != nil {
			return
		}
		objects = append(objects, objs...)
	})
	return objects
}

// ParseJSONLD decodes one JSON-LD block.
func ParseJSONLD(text string) ([]Object, error) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err != nil {
		return nil, err
	}
	var out []Object
	flattenJSONLD(v, &out)
	return out, nil
}

func flattenJSONLD(v any, out *[]Object) {
	switch t := v.(type) {
	case map[string]any:
		*out = append(*out, Object(t))
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				flattenJSONLD(item, out)
			}
		}
	case []any:
		for _, item := range t {
			flattenJSONLD(item, out)
		}
	}
}
