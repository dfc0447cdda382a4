// Package menu serves the restaurant's embedded menu catalog.
package menu

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

const (
	AvailableAllDays  = "All Days"
	AvailableWeekends = "Weekends"
	AvailableSunday   = "Sunday Special"
)

type Catalog struct {
	Restaurant Restaurant `yaml:"restaurant" json:"restaurant"`
	Buffet     Buffet     `yaml:"buffet" json:"buffet"`
	Categories []Category `yaml:"categories" json:"categories"`
}

type Restaurant struct {
	Name      string  `yaml:"name" json:"name"`
	Tagline   string  `yaml:"tagline" json:"tagline,omitempty"`
	Phone     string  `yaml:"phone" json:"phone"`
	Instagram string  `yaml:"instagram" json:"instagram"`
	Address   Address `yaml:"address" json:"address"`
	Hours     []Hours `yaml:"hours" json:"hours"`
}

type Address struct {
	Street     string `yaml:"street" json:"street"`
	City       string `yaml:"city" json:"city"`
	Region     string `yaml:"region" json:"region"`
	PostalCode string `yaml:"postal_code" json:"postal_code"`
}

type Hours struct {
	Days  string `yaml:"days" json:"days"`
	Open  string `yaml:"open" json:"open"`
	Close string `yaml:"close" json:"close"`
}

type Buffet struct {
	Days     string          `yaml:"days" json:"days"`
	Prices   []Price         `yaml:"prices" json:"prices"`
	Sessions []BuffetSession `yaml:"sessions" json:"sessions"`
}

type Price struct {
	Label  string  `yaml:"label" json:"label"`
	Amount float64 `yaml:"amount" json:"amount"`
}

type BuffetSession struct {
	Name  string `yaml:"name" json:"name"`
	Hours string `yaml:"hours" json:"hours"`
}

type Category struct {
	Slug        string `yaml:"slug" json:"slug"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Items       []Item `yaml:"items" json:"items"`
}

type Item struct {
	Name           string `yaml:"name" json:"name"`
	Price          string `yaml:"price" json:"price"`
	Accompaniments string `yaml:"accompaniments" json:"accompaniments,omitempty"`
	Availability   string `yaml:"availability" json:"availability"`
}

// SearchResult is an item together with the category it was found in.
type SearchResult struct {
	Category string `json:"category"`
	Item
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalog document and rejects duplicate slugs and unknown availability values.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse menu catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Slug == "" {
			return nil, fmt.Errorf("menu category %q has no slug", cat.Name)
		}
		if seen[cat.Slug] {
			return nil, fmt.Errorf("duplicate menu category slug %q", cat.Slug)
		}
		seen[cat.Slug] = true

		for _, item := range cat.Items {
			switch item.Availability {
			case AvailableAllDays, AvailableWeekends, AvailableSunday:
			default:
				return nil, fmt.Errorf("menu item %q: unknown availability %q", item.Name, item.Availability)
			}
		}
	}
	return &c, nil
}

func (c *Catalog) Category(slug string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].Slug == slug {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

// Search returns items whose name contains q, ignoring case.
func (c *Catalog) Search(q string) []SearchResult {
	q = strings.ToLower(strings.TrimSpace(q))
	results := []SearchResult{}
	if q == "" {
		return results
	}
	for _, cat := range c.Categories {
		for _, item := range cat.Items {
			if strings.Contains(strings.ToLower(item.Name), q) {
				results = append(results, SearchResult{Category: cat.Slug, Item: item})
			}
		}
	}
	return results
}
