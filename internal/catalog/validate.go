package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/scirap/internal/model"
	"github.com/ppiankov/scirap/internal/normalize"
)

// ErrInvalidCatalog is wrapped by every catalog validation failure
var ErrInvalidCatalog = errors.New("invalid rule catalog")

// Problem is a single validation failure
type Problem struct {
	Key     string // Rule key, empty for catalog-level problems
	Field   string
	Message string
}

func (p Problem) String() string {
	switch {
	case p.Key == "" && p.Field == "":
		return p.Message
	case p.Key == "":
		return fmt.Sprintf("%s: %s", p.Field, p.Message)
	case p.Field == "":
		return fmt.Sprintf("rule %s: %s", p.Key, p.Message)
	default:
		return fmt.Sprintf("rule %s: %s: %s", p.Key, p.Field, p.Message)
	}
}

// ValidationError collects every problem found in a catalog
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("%v: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is match ErrInvalidCatalog
func (e *ValidationError) Unwrap() error {
	return ErrInvalidCatalog
}

// allowedCategories lists the keyword categories each kind evaluates
var allowedCategories = map[model.Kind]map[string]bool{
	model.KindReporting:      {"strong": true, "weak": true},
	model.KindMethodological: {"strong": true, "weak": true, "contradict": true},
	model.KindRelevance:      {"direct": true, "indirect": true, "not_relevant": true},
}

// categoryOrder fixes the order problems are reported in
var categoryOrder = []string{"strong", "weak", "contradict", "direct", "indirect", "not_relevant"}

// Validate checks rules for unknown kinds, missing or duplicate keys, empty
// questions, keyword lists the kind does not use and keywords that are not
// in normalized form (those could never match).
func Validate(rules []model.Rule) error {
	var problems []Problem
	add := func(key, field, format string, args ...interface{}) {
		problems = append(problems, Problem{Key: key, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if len(rules) == 0 {
		add("", "", "catalog has no rules")
	}

	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		key := r.Key
		if strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("#%d", i+1)
			add(key, "key", "is required")
		} else if seen[key] {
			add(key, "key", "duplicate rule key")
		}
		seen[r.Key] = true

		if strings.TrimSpace(r.Question) == "" {
			add(key, "question", "is required")
		}

		allowed, ok := allowedCategories[r.Kind]
		if !ok {
			add(key, "kind", "unknown kind %q (supported: reporting, methodological, relevance)", r.Kind)
			continue
		}

		lists := r.Keywords()
		for _, category := range categoryOrder {
			keywords := lists[category]
			if len(keywords) == 0 {
				continue
			}
			if !allowed[category] {
				add(key, category, "%s rules do not use %s keywords", r.Kind, category)
				continue
			}
			for _, kw := range keywords {
				if kw == "" {
					add(key, category, "empty keyword")
					continue
				}
				if !normalize.IsNormalized(kw) {
					add(key, category, "keyword %q is not normalized (would be %q)", kw, normalize.Normalize(kw))
				}
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
