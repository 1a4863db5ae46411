package airtable

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// validate checks decoded records against the struct tags of the domain
// types. Records failing validation are treated as corrupt data, not as
// user errors.
var validate = validator.New()

// table is the shared base of every entity repository: a client, the query
// cache, and the table name. Repositories embed it by composition and add
// their own typed finders on top.
type table struct {
	client *Client
	cache  *QueryCache
	name   string
}

// execute runs q either through the cache or directly. Lookups that must
// observe writes immediately (credential checks, pre-write uniqueness
// probes) pass useCache=false.
func (t *table) execute(ctx context.Context, q CacheableQuery, useCache bool) (*Result, error) {
	if useCache && t.cache != nil {
		return t.cache.Execute(ctx, q)
	}
	return q.Do(ctx)
}

// escapeFilterChars reduces a user-supplied value to the characters safe to
// embed in a filter formula. Everything outside the allow-list of letters,
// digits, hyphen, plus, at sign, and dot is dropped, so quotes and braces
// can never terminate a string literal or open a field reference.
func escapeFilterChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '+' || r == '@' || r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// buildFilter combines formula conditions with the given operator ("AND" or
// "OR"). A single condition is returned bare, no conditions yield the empty
// formula.
func buildFilter(op string, conds ...string) string {
	nonEmpty := conds[:0]
	for _, c := range conds {
		if c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return ""
	case 1:
		return nonEmpty[0]
	default:
		return op + "(" + strings.Join(nonEmpty, ", ") + ")"
	}
}

// fieldEquals builds a case-insensitive equality condition on a text field.
// The value goes through escapeFilterChars; the field name is a trusted
// constant chosen by the repository.
func fieldEquals(field, value string) string {
	return fmt.Sprintf("LOWER({%s}) = LOWER('%s')", field, escapeFilterChars(value))
}

// decodeRecord maps a raw record's fields onto a tagged domain struct and
// validates it. Field names follow the json tags; numeric fields arrive
// from the wire as float64 and are converted to the struct's declared type.
//
// Records coming out of the cache are shared between requests, so the field
// map is copied before the record identity is folded in.
func decodeRecord(rec Record, target any) error {
	fields := make(map[string]any, len(rec.Fields)+1)
	for k, v := range rec.Fields {
		fields[k] = v
	}
	fields["id"] = rec.ID

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("airtable: build decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("airtable: decode record %s: %w", rec.ID, err)
	}
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("airtable: record %s failed validation: %w", rec.ID, err)
	}
	return nil
}
