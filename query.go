package recs

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// QueryDescription selects entities by their component types.
// An entity matches if it has every type in All, at least one type in One
// and none of the types in Not. Empty conditions are ignored.
type QueryDescription struct {
	All []*ComponentType
	One []*ComponentType
	Not []*ComponentType
}

func (d QueryDescription) validate() error {
	if len(d.All) == 0 && len(d.One) == 0 && len(d.Not) == 0 {
		return ErrEmptyQuery
	}

	for _, bucket := range [][]*ComponentType{d.All, d.One, d.Not} {
		if slices.Contains(bucket, nil) {
			return ErrInvalidQuery
		}
	}

	return nil
}

// Key returns the canonical form of the description. Descriptions listing the
// same types per condition have the same key, independent of ordering and
// duplicates. The condition order in the key is fixed: all, one, not.
func (d QueryDescription) Key() string {
	var parts []string

	appendBucket := func(label string, types []*ComponentType) {
		if len(types) == 0 {
			return
		}

		names := make([]string, 0, len(types))
		for _, ty := range types {
			names = append(names, ty.Name)
		}

		slices.Sort(names)
		names = slices.Compact(names)

		parts = append(parts, label+"("+strings.Join(names, ",")+")")
	}

	appendBucket("all", d.All)
	appendBucket("one", d.One)
	appendBucket("not", d.Not)

	return strings.Join(parts, "&")
}

// componentTypes returns the union of all types referenced by the description.
func (d QueryDescription) componentTypes() []*ComponentType {
	var types []*ComponentType

	for _, bucket := range [][]*ComponentType{d.All, d.One, d.Not} {
		for _, ty := range bucket {
			if !slices.Contains(types, ty) {
				types = append(types, ty)
			}
		}
	}

	return types
}

// Matches evaluates the description against the current components of the entity.
func (d QueryDescription) Matches(entity *Entity) bool {
	for _, ty := range d.Not {
		if entity.Has(ty) {
			return false
		}
	}

	for _, ty := range d.All {
		if !entity.Has(ty) {
			return false
		}
	}

	if len(d.One) > 0 {
		for _, ty := range d.One {
			if entity.Has(ty) {
				return true
			}
		}

		return false
	}

	return true
}

// Query is a cached, incrementally maintained set of entities matching a
// QueryDescription. Queries are shared: every user of an identical
// description gets the same Query instance.
//
// All, Added and Removed change only during World.Update, before systems
// run. Added and Removed hold the changes of the latest update.
type Query struct {
	description QueryDescription
	key         string
	hash        uint64
	components  []*ComponentType
	standalone  bool

	all     EntitySet
	added   EntitySet
	removed EntitySet
}

func newQuery(description QueryDescription, key string) *Query {
	return &Query{
		description: description,
		key:         key,
		hash:        xxhash.Sum64String(key),
		components:  description.componentTypes(),
	}
}

func (q *Query) Description() QueryDescription {
	return q.description
}

func (q *Query) Key() string {
	return q.key
}

// Components returns all component types the query depends on.
func (q *Query) Components() []*ComponentType {
	return slices.Clone(q.components)
}

// Standalone reports whether the query was requested directly from the
// world. Standalone queries are kept when no system uses them anymore.
func (q *Query) Standalone() bool {
	return q.standalone
}

// All contains every alive entity currently matching the query.
func (q *Query) All() *EntitySet {
	return &q.all
}

// Added contains the entities that started matching during the latest update.
func (q *Query) Added() *EntitySet {
	return &q.added
}

// Removed contains the entities that stopped matching during the latest update.
// Entities in this set may already have been destroyed.
func (q *Query) Removed() *EntitySet {
	return &q.removed
}

// negative reports whether the query has only not conditions.
func (q *Query) negative() bool {
	return len(q.description.All) == 0 && len(q.description.One) == 0
}

func (q *Query) matches(entity *Entity) bool {
	return entity.alive && q.description.Matches(entity)
}
