// Package rubric loads and validates the ordered list of weighted criteria a
// reviewer scores against.
package rubric

import (
	"embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

const (
	// MinScore is the lowest rating a criterion can receive.
	MinScore = 1
	// MaxScore is the highest rating a criterion can receive.
	MaxScore = 5
	// TotalWeight is the sum every catalog's weights must reach.
	TotalWeight = 100.0

	// DefaultBuiltin names the rubric used when nothing else is configured.
	DefaultBuiltin = "research-methods"

	weightTolerance = 0.001
)

// ErrInvalidCatalog is returned when a catalog fails validation.
var ErrInvalidCatalog = errors.New("rubric: invalid catalog")

// Criterion is one weighted dimension of the rubric.
type Criterion struct {
	ID          string  `yaml:"id"`
	Category    string  `yaml:"category"`
	Weight      float64 `yaml:"weight"`
	Description string  `yaml:"description"`
	Details     string  `yaml:"details"`
}

// Catalog is an ordered, read-only set of criteria.
type Catalog struct {
	Name     string      `yaml:"name"`
	Title    string      `yaml:"title"`
	Criteria []Criterion `yaml:"criteria"`
}

// Len reports the number of criteria.
func (c Catalog) Len() int {
	return len(c.Criteria)
}

// IDs returns criterion identifiers in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.Criteria))
	for i, crit := range c.Criteria {
		ids[i] = crit.ID
	}
	return ids
}

// Lookup finds a criterion by identifier.
func (c Catalog) Lookup(id string) (Criterion, bool) {
	for _, crit := range c.Criteria {
		if crit.ID == id {
			return crit, true
		}
	}
	return Criterion{}, false
}

// Has reports whether id names a criterion in the catalog.
func (c Catalog) Has(id string) bool {
	_, ok := c.Lookup(id)
	return ok
}

// SumWeights adds up the weights of every criterion.
func (c Catalog) SumWeights() float64 {
	sum := 0.0
	for _, crit := range c.Criteria {
		sum += crit.Weight
	}
	return sum
}

// Validate checks identifiers, categories and weights.
func (c Catalog) Validate() error {
	if len(c.Criteria) == 0 {
		return fmt.Errorf("%w: no criteria defined", ErrInvalidCatalog)
	}
	seen := make(map[string]struct{}, len(c.Criteria))
	for i, crit := range c.Criteria {
		if strings.TrimSpace(crit.ID) == "" {
			return fmt.Errorf("%w: criteria[%d]: id is required", ErrInvalidCatalog, i)
		}
		if _, dup := seen[crit.ID]; dup {
			return fmt.Errorf("%w: criteria[%d]: duplicate id %q", ErrInvalidCatalog, i, crit.ID)
		}
		seen[crit.ID] = struct{}{}
		if strings.TrimSpace(crit.Category) == "" {
			return fmt.Errorf("%w: criteria[%d]: category is required", ErrInvalidCatalog, i)
		}
		if math.IsNaN(crit.Weight) || math.IsInf(crit.Weight, 0) || !(crit.Weight > 0) {
			return fmt.Errorf("%w: criteria[%d]: weight must be a positive number, got %g", ErrInvalidCatalog, i, crit.Weight)
		}
	}
	if sum := c.SumWeights(); !(math.Abs(sum-TotalWeight) <= weightTolerance) {
		return fmt.Errorf("%w: weights sum to %g, must sum to %g", ErrInvalidCatalog, sum, TotalWeight)
	}
	return nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("rubric: parse: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Load reads a catalog from a YAML file.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("rubric: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Builtin loads one of the embedded catalogs by name.
func Builtin(name string) (Catalog, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultBuiltin
	}
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return Catalog{}, fmt.Errorf("rubric: unknown builtin %q: %w", name, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("rubric: builtin %q: %w", name, err)
	}
	if c.Name == "" {
		c.Name = name
	}
	return c, nil
}

// BuiltinNames lists the embedded catalogs.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names
}

// Resolve picks the catalog for a run: an explicit file wins over a builtin name.
func Resolve(builtin, path string) (Catalog, error) {
	if p := strings.TrimSpace(path); p != "" {
		return Load(p)
	}
	return Builtin(builtin)
}

func (c *Catalog) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Title = strings.TrimSpace(c.Title)
	for i := range c.Criteria {
		crit := &c.Criteria[i]
		crit.ID = strings.TrimSpace(crit.ID)
		crit.Category = strings.TrimSpace(crit.Category)
		crit.Description = strings.TrimSpace(crit.Description)
		crit.Details = strings.TrimSpace(crit.Details)
	}
}
