// Package categories holds the fixed default categories and the user's custom
// ones, and resolves category ids to display names and colors.
package categories

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"finflow/internal/core"
)

// OtherID is the category unknown ids resolve to.
const OtherID = "other"

var defaults = []core.Category{
	{ID: "food", Name: "Food", Color: "#f97316"},
	{ID: "transport", Name: "Transport", Color: "#3b82f6"},
	{ID: "housing", Name: "Housing", Color: "#8b5cf6"},
	{ID: "health", Name: "Health", Color: "#ef4444"},
	{ID: "education", Name: "Education", Color: "#06b6d4"},
	{ID: "leisure", Name: "Leisure", Color: "#ec4899"},
	{ID: "shopping", Name: "Shopping", Color: "#eab308"},
	{ID: "bills", Name: "Bills", Color: "#64748b"},
	{ID: "salary", Name: "Salary", Color: "#22c55e"},
	{ID: "investments", Name: "Investments", Color: "#14b8a6"},
	{ID: OtherID, Name: "Other", Color: "#9ca3af"},
}

// Defaults returns a copy of the built-in categories.
func Defaults() []core.Category {
	out := make([]core.Category, len(defaults))
	copy(out, defaults)
	return out
}

// IsDefault reports whether id names a built-in category.
func IsDefault(id string) bool {
	for _, c := range defaults {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Registry is an immutable view over the default and custom categories.
type Registry struct {
	all  []core.Category
	byID map[string]core.Category
}

// NewRegistry combines the defaults with custom. Custom entries whose id is
// already taken are dropped, so ids are unique across the registry.
func NewRegistry(custom []core.Category) *Registry {
	r := &Registry{
		all:  make([]core.Category, 0, len(defaults)+len(custom)),
		byID: make(map[string]core.Category, len(defaults)+len(custom)),
	}
	for _, c := range defaults {
		r.add(c)
	}
	for _, c := range custom {
		if c.ID == "" {
			continue
		}
		if _, taken := r.byID[c.ID]; taken {
			continue
		}
		c.IsCustom = true
		r.add(c)
	}
	return r
}

func (r *Registry) add(c core.Category) {
	r.all = append(r.all, c)
	r.byID[c.ID] = c
}

// All returns the defaults followed by the custom categories.
func (r *Registry) All() []core.Category {
	out := make([]core.Category, len(r.all))
	copy(out, r.all)
	return out
}

// Custom returns only the user-defined categories.
func (r *Registry) Custom() []core.Category {
	var out []core.Category
	for _, c := range r.all {
		if c.IsCustom {
			out = append(out, c)
		}
	}
	return out
}

// Lookup returns the category registered under id.
func (r *Registry) Lookup(id string) (core.Category, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Resolve returns the category for id, or "Other" when the id is unknown.
// A nil registry resolves against the defaults.
func (r *Registry) Resolve(id string) core.Category {
	if r == nil {
		r = NewRegistry(nil)
	}
	if c, ok := r.byID[id]; ok {
		return c
	}
	return r.byID[OtherID]
}

// Slugify turns a display name into a category id: lower case, diacritics
// removed, words joined by '-'.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(plain) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(words, "-")
}
