package pivot

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Factors are the six 0-100 scoring inputs of a catalog option.
type Factors struct {
	Problem         float64 `yaml:"problem" json:"problem"`
	Underserved     float64 `yaml:"underserved" json:"underserved"`
	Demand          float64 `yaml:"demand" json:"demand"`
	Differentiation float64 `yaml:"differentiation" json:"differentiation"`
	Economics       float64 `yaml:"economics" json:"economics"`
	GTM             float64 `yaml:"gtm" json:"gtm"`
}

// Overall blends the factors with fixed weights.
func (f Factors) Overall() float64 {
	return 0.20*f.Problem + 0.15*f.Underserved + 0.25*f.Demand + 0.15*f.Differentiation + 0.15*f.Economics + 0.10*f.GTM
}

func (f Factors) validate() error {
	for name, v := range map[string]float64{
		"problem": f.Problem, "underserved": f.Underserved, "demand": f.Demand,
		"differentiation": f.Differentiation, "economics": f.Economics, "gtm": f.GTM,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("factor %s out of range: %v", name, v)
		}
	}
	return nil
}

type Option struct {
	ID             string   `yaml:"id" json:"id"`
	Category       string   `yaml:"category" json:"category"`
	Title          string   `yaml:"title" json:"title"`
	Description    string   `yaml:"description" json:"description"`
	MarketSize     string   `yaml:"market_size" json:"market_size"`
	GrowthRate     string   `yaml:"growth_rate" json:"growth_rate"`
	Competitors    []string `yaml:"competitors" json:"competitors"`
	Barriers       []string `yaml:"barriers" json:"barriers"`
	Opportunities  []string `yaml:"opportunities" json:"opportunities"`
	ScoringFactors Factors  `yaml:"scoring_factors" json:"scoring_factors"`
	RelevantSkills []string `yaml:"relevant_skills" json:"relevant_skills"`
}

// Catalog is read-only after load.
type Catalog struct {
	options    []Option
	byCategory map[string][]Option
	byID       map[string]Option
}

type catalogFile struct {
	Version int      `yaml:"version"`
	Options []Option `yaml:"options"`
}

func LoadCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing pivot catalog: %w", err)
	}
	if len(f.Options) == 0 {
		return nil, fmt.Errorf("pivot catalog has no options")
	}
	c := &Catalog{
		byCategory: make(map[string][]Option),
		byID:       make(map[string]Option, len(f.Options)),
	}
	for i, o := range f.Options {
		if o.ID == "" || o.Category == "" {
			return nil, fmt.Errorf("option %d: id and category are required", i)
		}
		if _, dup := c.byID[o.ID]; dup {
			return nil, fmt.Errorf("option %s: duplicate id", o.ID)
		}
		if err := o.ScoringFactors.validate(); err != nil {
			return nil, fmt.Errorf("option %s: %w", o.ID, err)
		}
		c.options = append(c.options, o)
		c.byCategory[o.Category] = append(c.byCategory[o.Category], o)
		c.byID[o.ID] = o
	}
	return c, nil
}

func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pivot catalog: %w", err)
	}
	return LoadCatalog(data)
}

var builtin = sync.OnceValue(func() *Catalog {
	c, err := LoadCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
})

// Builtin returns the embedded catalog.
func Builtin() *Catalog { return builtin() }

func (c *Catalog) Category(name string) []Option { return c.byCategory[name] }

func (c *Catalog) Get(id string) (Option, bool) {
	o, ok := c.byID[id]
	return o, ok
}

func (c *Catalog) Len() int { return len(c.options) }
