package pricing

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type Mode string

const (
	ModePerPage Mode = "per_page"
	ModeFixed   Mode = "fixed"
)

const DefaultPaperType = "a4-normal"

var ErrInvalidCatalog = errors.New("invalid catalog")

type Service struct {
	Name  string          `json:"name"`
	Mode  Mode            `json:"mode"`
	Price decimal.Decimal `json:"price"`
}

type PaperType struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// Catalog is the static price list. It is read-only after Load.
type Catalog struct {
	services   []Service
	byName     map[string]Service
	paperTypes []PaperType
	paperByID  map[string]PaperType
	emergency  decimal.Decimal
}

type catalogFile struct {
	EmergencyMultiplier string `yaml:"emergency_multiplier"`
	Services            []struct {
		Name  string `yaml:"name"`
		Mode  string `yaml:"mode"`
		Price string `yaml:"price"`
	} `yaml:"services"`
	PaperTypes []struct {
		ID        string `yaml:"id"`
		Name      string `yaml:"name"`
		Surcharge string `yaml:"surcharge"`
	} `yaml:"paper_types"`
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Load(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func Load(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	mult, err := decimal.NewFromString(f.EmergencyMultiplier)
	if err != nil || mult.LessThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: emergency_multiplier %q", ErrInvalidCatalog, f.EmergencyMultiplier)
	}

	c := &Catalog{
		byName:    make(map[string]Service, len(f.Services)),
		paperByID: make(map[string]PaperType, len(f.PaperTypes)),
		emergency: mult,
	}

	for _, s := range f.Services {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: service without name", ErrInvalidCatalog)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate service %q", ErrInvalidCatalog, name)
		}
		mode := Mode(s.Mode)
		if mode != ModePerPage && mode != ModeFixed {
			return nil, fmt.Errorf("%w: service %q has mode %q", ErrInvalidCatalog, name, s.Mode)
		}
		price, err := decimal.NewFromString(s.Price)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("%w: service %q has price %q", ErrInvalidCatalog, name, s.Price)
		}
		svc := Service{Name: name, Mode: mode, Price: price}
		c.services = append(c.services, svc)
		c.byName[name] = svc
	}

	for _, p := range f.PaperTypes {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: paper type without id", ErrInvalidCatalog)
		}
		surcharge, err := decimal.NewFromString(p.Surcharge)
		if err != nil || surcharge.IsNegative() {
			return nil, fmt.Errorf("%w: paper type %q has surcharge %q", ErrInvalidCatalog, p.ID, p.Surcharge)
		}
		pt := PaperType{ID: p.ID, Name: p.Name, Surcharge: surcharge}
		c.paperTypes = append(c.paperTypes, pt)
		c.paperByID[p.ID] = pt
	}

	return c, nil
}

func (c *Catalog) Services() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

func (c *Catalog) PaperTypes() []PaperType {
	out := make([]PaperType, len(c.paperTypes))
	copy(out, c.paperTypes)
	return out
}

func (c *Catalog) Service(name string) (Service, bool) {
	s, ok := c.byName[name]
	return s, ok
}

func (c *Catalog) PaperType(id string) (PaperType, bool) {
	p, ok := c.paperByID[id]
	return p, ok
}

func (c *Catalog) EmergencyMultiplier() decimal.Decimal {
	return c.emergency
}
