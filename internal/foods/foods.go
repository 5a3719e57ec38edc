// Package foods is the static nutrient table behind the food-info lookup.
// Lookups are exact (case-insensitive) names; there is no fuzzy matching.
package foods

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed foods.yaml
var foodsYAML []byte

type Food struct {
	Name     string  `yaml:"name"     json:"name"`
	Category string  `yaml:"category" json:"category"`
	Calories float64 `yaml:"calories" json:"calories"`
	Protein  float64 `yaml:"protein"  json:"protein"`
	Carbs    float64 `yaml:"carbs"    json:"carbs"`
	Fats     float64 `yaml:"fats"     json:"fats"`
	Rating   string  `yaml:"rating"   json:"rating"`
}

var healthTips = map[string]string{
	"A": "Excellent choice! This food is nutrient-dense and great for your health.",
	"B": "Good choice! This food provides decent nutrition with moderate calories.",
	"C": "Okay choice. Consider portion control and balance with healthier options.",
	"D": "Limit consumption. High in calories or low in nutrients.",
}

// HealthTip returns the advice line for a rating.
func HealthTip(rating string) string {
	if tip, ok := healthTips[rating]; ok {
		return tip
	}
	return "No rating available"
}

// Table is an in-memory food table keyed by lowercase name.
type Table struct {
	byName map[string]Food
	names  []string
}

// Parse builds a table from YAML with a top-level "foods" list.
func Parse(data []byte) (*Table, error) {
	var doc struct {
		Foods []Food `yaml:"foods"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse food table: %w", err)
	}
	t := &Table{byName: make(map[string]Food, len(doc.Foods))}
	for _, f := range doc.Foods {
		key := strings.ToLower(strings.TrimSpace(f.Name))
		if key == "" {
			return nil, fmt.Errorf("parse food table: entry with empty name")
		}
		if _, dup := t.byName[key]; dup {
			return nil, fmt.Errorf("parse food table: duplicate food %q", key)
		}
		t.byName[key] = f
		t.names = append(t.names, key)
	}
	sort.Strings(t.names)
	return t, nil
}

// Default returns the embedded table. It panics if the embedded file is
// malformed, which the package tests rule out.
func Default() *Table {
	t, err := Parse(foodsYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup finds a food by name, ignoring case and surrounding spaces.
func (t *Table) Lookup(name string) (Food, bool) {
	f, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Names lists the table's names in alphabetical order, filtered to those
// starting with prefix (case-insensitive). An empty prefix lists everything.
func (t *Table) Names(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := []string{}
	for _, n := range t.names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}
