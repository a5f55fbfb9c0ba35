package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

// StepDefinition describes one stage of the configurator for a package.
type StepDefinition struct {
	Title         string         `json:"title"`
	Kind          enums.StepKind `json:"kind"`
	Category      Category       `json:"category,omitempty"`
	MaxSelections int            `json:"max_selections,omitempty"`
	// Options is resolved by the catalog at construction time.
	Options []string `json:"options,omitempty"`
}

// Package is an immutable catering offering.
type Package struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Image         string             `json:"image"`
	PricingModel  enums.PricingModel `json:"pricing_model"`
	UnitPrice     decimal.Decimal    `json:"unit_price"`
	IncludedItems []string           `json:"included_items"`
	Steps         []StepDefinition   `json:"steps"`
}

// Step returns the 1-based step definition.
func (p Package) Step(index int) (StepDefinition, bool) {
	if index < 1 || index > len(p.Steps) {
		return StepDefinition{}, false
	}
	return p.Steps[index-1], true
}

// SummaryIndex is the pseudo-step index that follows the last real step.
func (p Package) SummaryIndex() int {
	return len(p.Steps) + 1
}

// HasOption reports whether item may be picked at the given step.
func (s StepDefinition) HasOption(item string) bool {
	for _, option := range s.Options {
		if option == item {
			return true
		}
	}
	return false
}

// Catalog is the read-only set of packages offered to the configurator.
type Catalog struct {
	packages []Package
	byName   map[string]int
	menu     Menu
}

// New validates the packages against the menu and resolves every step's options.
func New(packages []Package, menu Menu) (*Catalog, error) {
	if len(packages) == 0 {
		return nil, fmt.Errorf("catalog requires at least one package")
	}
	c := &Catalog{
		packages: make([]Package, 0, len(packages)),
		byName:   make(map[string]int, len(packages)),
		menu:     menu,
	}
	for _, pkg := range packages {
		resolved, err := c.resolve(pkg)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byName[resolved.Name]; dup {
			return nil, fmt.Errorf("duplicate package name %q", resolved.Name)
		}
		c.byName[resolved.Name] = len(c.packages)
		c.packages = append(c.packages, resolved)
	}
	return c, nil
}

// MustNew is New for package-level catalogs; an invalid catalog is a programming error.
func MustNew(packages []Package, menu Menu) *Catalog {
	c, err := New(packages, menu)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Packages returns a copy of the packages in display order.
func (c *Catalog) Packages() []Package {
	out := make([]Package, len(c.packages))
	copy(out, c.packages)
	return out
}

// Lookup resolves a package by its display name.
func (c *Catalog) Lookup(name string) (Package, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Package{}, false
	}
	return c.packages[idx], true
}

// Menu exposes the menu the catalog was built from.
func (c *Catalog) Menu() Menu {
	return c.menu
}

func (c *Catalog) resolve(pkg Package) (Package, error) {
	name := strings.TrimSpace(pkg.Name)
	if name == "" {
		return Package{}, fmt.Errorf("package name is required")
	}
	if !pkg.PricingModel.IsValid() {
		return Package{}, fmt.Errorf("package %q: invalid pricing model %q", name, pkg.PricingModel)
	}
	if !pkg.UnitPrice.IsPositive() {
		return Package{}, fmt.Errorf("package %q: unit price must be positive", name)
	}
	if len(pkg.Steps) == 0 {
		return Package{}, fmt.Errorf("package %q: at least one step is required", name)
	}
	if pkg.PricingModel == enums.PricingModelPerWeight {
		if len(pkg.Steps) != 1 || pkg.Steps[0].Kind != enums.StepKindWeightInput {
			return Package{}, fmt.Errorf("package %q: per-weight packages have exactly one weight input step", name)
		}
	}

	out := pkg
	out.Name = name
	out.IncludedItems = append([]string(nil), pkg.IncludedItems...)
	out.Steps = make([]StepDefinition, len(pkg.Steps))
	for i, step := range pkg.Steps {
		resolved, err := c.resolveStep(pkg.PricingModel, step)
		if err != nil {
			return Package{}, fmt.Errorf("package %q step %d: %w", name, i+1, err)
		}
		out.Steps[i] = resolved
	}
	return out, nil
}

func (c *Catalog) resolveStep(model enums.PricingModel, step StepDefinition) (StepDefinition, error) {
	if strings.TrimSpace(step.Title) == "" {
		return StepDefinition{}, fmt.Errorf("title is required")
	}
	out := step
	switch step.Kind {
	case enums.StepKindChoice:
		if step.MaxSelections < 1 {
			return StepDefinition{}, fmt.Errorf("choice steps need max selections >= 1")
		}
		options, ok := c.menu.Options(step.Category)
		if !ok {
			return StepDefinition{}, fmt.Errorf("unknown menu category %q", step.Category)
		}
		if step.MaxSelections > len(options) {
			return StepDefinition{}, fmt.Errorf("max selections %d exceeds %d options", step.MaxSelections, len(options))
		}
		out.Options = options
	case enums.StepKindBreadChoice:
		if step.MaxSelections != 0 || step.Category != "" {
			return StepDefinition{}, fmt.Errorf("bread steps take no category or max selections")
		}
		out.Options = append([]string(nil), BreadOptions...)
	case enums.StepKindWeightInput:
		if step.MaxSelections != 0 || step.Category != "" {
			return StepDefinition{}, fmt.Errorf("weight steps take no category or max selections")
		}
		if model != enums.PricingModelPerWeight {
			return StepDefinition{}, fmt.Errorf("weight steps are only valid for per-weight packages")
		}
		out.Options = nil
	default:
		return StepDefinition{}, fmt.Errorf("invalid step kind %q", step.Kind)
	}
	return out, nil
}
