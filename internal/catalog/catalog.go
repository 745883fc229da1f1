// Package catalog holds the immutable rule definitions the evaluator runs
// against a document. A Catalog is validated once when it is built and is
// safe for concurrent use afterwards.
package catalog

import (
	"fmt"
	"sync"

	"github.com/ppiankov/scirap/internal/model"
)

// Catalog is a validated, read-only set of rules grouped by kind in declaration order
type Catalog struct {
	byKind map[model.Kind][]model.Rule
	byKey  map[string]model.Rule
	size   int
}

// New validates rules and builds a catalog from them
func New(rules []model.Rule) (*Catalog, error) {
	if err := Validate(rules); err != nil {
		return nil, err
	}

	c := &Catalog{
		byKind: make(map[model.Kind][]model.Rule),
		byKey:  make(map[string]model.Rule, len(rules)),
		size:   len(rules),
	}
	for _, r := range rules {
		rule := r.Clone()
		c.byKind[rule.Kind] = append(c.byKind[rule.Kind], rule)
		c.byKey[rule.Key] = rule
	}

	return c, nil
}

// MustNew is like New but panics on an invalid catalog
func MustNew(rules []model.Rule) *Catalog {
	c, err := New(rules)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	return MustNew(defaultRules())
})

// Default returns the built-in catalog (RQ1-RQ24, MQ1-MQ16, R1-R4)
func Default() *Catalog {
	return defaultCatalog()
}

// Kinds returns the kinds that have at least one rule, in report order
func (c *Catalog) Kinds() []model.Kind {
	var kinds []model.Kind
	for _, k := range model.Kinds() {
		if len(c.byKind[k]) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Rules returns a copy of the rules of kind in declaration order
func (c *Catalog) Rules(kind model.Kind) []model.Rule {
	src := c.byKind[kind]
	out := make([]model.Rule, len(src))
	for i, r := range src {
		out[i] = r.Clone()
	}
	return out
}

// All returns a copy of every rule, grouped by kind in report order
func (c *Catalog) All() []model.Rule {
	out := make([]model.Rule, 0, c.size)
	for _, k := range c.Kinds() {
		out = append(out, c.Rules(k)...)
	}
	return out
}

// Lookup finds a rule by key
func (c *Catalog) Lookup(key string) (model.Rule, bool) {
	r, ok := c.byKey[key]
	if !ok {
		return model.Rule{}, false
	}
	return r.Clone(), true
}

// Count returns the number of rules of kind
func (c *Catalog) Count(kind model.Kind) int {
	return len(c.byKind[kind])
}

// Len returns the total number of rules
func (c *Catalog) Len() int {
	return c.size
}
