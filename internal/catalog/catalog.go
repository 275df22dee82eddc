// Package catalog holds the fixed battery of rated attributes, grouped into categories.
package catalog

import (
	"fmt"

	"github.com/rcliao/pair-assessment/internal/model"
)

// Group is one category and its ordered attributes.
type Group struct {
	Name       string
	Attributes []model.Attribute
}

// Catalog is an immutable, ordered partition of attribute ids into categories.
type Catalog struct {
	groups     []Group
	byCategory map[string]int
	byID       map[string]int // attribute id -> group index
	labels     map[string]string
	ids        []string
}

// New builds a catalog. Every category needs at least one attribute and every
// attribute id must be unique across the whole catalog.
func New(groups ...Group) (*Catalog, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("catalog needs at least one category")
	}
	c := &Catalog{
		byCategory: make(map[string]int, len(groups)),
		byID:       make(map[string]int),
		labels:     make(map[string]string),
	}
	for i, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("category %d has no name", i)
		}
		if _, dup := c.byCategory[g.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", g.Name)
		}
		if len(g.Attributes) == 0 {
			return nil, fmt.Errorf("category %q has no attributes", g.Name)
		}
		attrs := make([]model.Attribute, len(g.Attributes))
		copy(attrs, g.Attributes)
		for _, a := range attrs {
			if a.ID == "" {
				return nil, fmt.Errorf("category %q has an attribute without id", g.Name)
			}
			if prev, dup := c.byID[a.ID]; dup {
				return nil, fmt.Errorf("attribute %q in both %q and %q", a.ID, groups[prev].Name, g.Name)
			}
			c.byID[a.ID] = i
			c.labels[a.ID] = a.Label
			c.ids = append(c.ids, a.ID)
		}
		c.byCategory[g.Name] = i
		c.groups = append(c.groups, Group{Name: g.Name, Attributes: attrs})
	}
	return c, nil
}

// Categories returns the category names in catalog order.
func (c *Catalog) Categories() []string {
	names := make([]string, len(c.groups))
	for i, g := range c.groups {
		names[i] = g.Name
	}
	return names
}

// AttributesOf returns the attributes of category in order, or nil if unknown.
func (c *Catalog) AttributesOf(category string) []model.Attribute {
	i, ok := c.byCategory[category]
	if !ok {
		return nil
	}
	out := make([]model.Attribute, len(c.groups[i].Attributes))
	copy(out, c.groups[i].Attributes)
	return out
}

// AttributeIDsOf returns just the ids of category's attributes.
func (c *Catalog) AttributeIDsOf(category string) []string {
	i, ok := c.byCategory[category]
	if !ok {
		return nil
	}
	ids := make([]string, len(c.groups[i].Attributes))
	for j, a := range c.groups[i].Attributes {
		ids[j] = a.ID
	}
	return ids
}

// AllAttributeIDs returns every id, flattened in catalog order.
func (c *Catalog) AllAttributeIDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Has reports whether id is a known attribute.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// HasCategory reports whether name is a known category.
func (c *Catalog) HasCategory(name string) bool {
	_, ok := c.byCategory[name]
	return ok
}

// CategoryOf returns the category containing id.
func (c *Catalog) CategoryOf(id string) (string, bool) {
	i, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return c.groups[i].Name, true
}

// Label returns the human label for id, or "" when unknown.
func (c *Catalog) Label(id string) string {
	return c.labels[id]
}

// Len is the total number of attributes.
func (c *Catalog) Len() int {
	return len(c.ids)
}
