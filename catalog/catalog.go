package catalog

import (
	"fmt"
	"sort"

	"github.com/jacentio/lattice/internal/keys"
)

// EntityTypeAttr is the discriminator attribute present on every record.
// It is always pushed down and cannot be filtered on directly.
const EntityTypeAttr = "entityType"

// Kind is the semantic type of a filterable attribute.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindTime   Kind = "time"
)

func (k Kind) valid() bool {
	return k == KindString || k == KindNumber || k == KindTime
}

// SortFormat describes how an index encodes its sort attribute into the sort key.
type SortFormat string

const (
	SortString SortFormat = "string" // raw value
	SortNumber SortFormat = "number" // zero-padded non-negative integer
	SortDate   SortFormat = "date"   // YYYY-MM-DD
	SortTime   SortFormat = "time"   // fixed-width RFC 3339 UTC
)

func (f SortFormat) valid() bool {
	return f == SortString || f == SortNumber || f == SortDate || f == SortTime
}

// kind returns the attribute kind the format can encode.
func (f SortFormat) kind() Kind {
	switch f {
	case SortNumber:
		return KindNumber
	case SortDate, SortTime:
		return KindTime
	default:
		return KindString
	}
}

// Attribute is a filterable record attribute.
type Attribute struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
}

// Index describes one secondary index of the table.
type Index struct {
	// Name is the GSI name passed to the store.
	Name string `yaml:"name"`

	// PartitionKeyAttr is the index partition key attribute (e.g. "GSI_ByCompany_PK").
	PartitionKeyAttr string `yaml:"partitionKeyAttr"`

	// PartitionTemplate builds the partition value from equality literals,
	// e.g. "LOCATION#{state}#{city}". A template without placeholders is a
	// constant partition shared by every record of the entity type.
	PartitionTemplate string `yaml:"partitionTemplate"`

	// SortKeyAttr is the index sort key attribute (e.g. "GSI_ByCompany_SK").
	SortKeyAttr string `yaml:"sortKeyAttr"`

	// SortAttr is the record attribute encoded at the front of the sort key,
	// if any. Range constraints on it can be served by the index.
	SortAttr string `yaml:"sortAttr,omitempty"`

	// SortPrefix precedes the encoded SortAttr in the sort key (e.g. "HOSTED_COUNT#").
	SortPrefix string `yaml:"sortPrefix,omitempty"`

	// SortFormat is the encoding of SortAttr.
	SortFormat SortFormat `yaml:"sortFormat,omitempty"`

	// Selectivity is the estimated fraction of records matching one partition.
	// Lower is more selective.
	Selectivity float64 `yaml:"selectivity"`
}

// PartitionAttrs returns the attributes that must be equality-constrained to query the index.
func (i Index) PartitionAttrs() []string {
	return keys.Placeholders(i.PartitionTemplate)
}

// Catalog is the immutable index description of one entity type.
type Catalog struct {
	EntityType string      `yaml:"entityType"`
	Attributes []Attribute `yaml:"attributes"`
	Indexes    []Index     `yaml:"indexes"`

	// OrderAttr is the attribute each full-scan page is sorted by, ascending
	// or descending per the request order or Descending. Index plans keep
	// the index key order instead.
	OrderAttr string `yaml:"orderAttr,omitempty"`

	// Descending makes most-recent-first the default order.
	Descending bool `yaml:"descending,omitempty"`

	kinds map[string]Kind
}

// New validates c and returns a ready-to-share catalog.
func New(c Catalog) (*Catalog, error) {
	if c.EntityType == "" {
		return nil, fmt.Errorf("%w: empty entity type", ErrInvalidCatalog)
	}

	c.kinds = make(map[string]Kind, len(c.Attributes))
	for _, a := range c.Attributes {
		if a.Name == "" || a.Name == EntityTypeAttr {
			return nil, fmt.Errorf("%w: %s: invalid attribute name %q", ErrInvalidCatalog, c.EntityType, a.Name)
		}
		if !a.Kind.valid() {
			return nil, fmt.Errorf("%w: %s.%s: unknown kind %q", ErrInvalidCatalog, c.EntityType, a.Name, a.Kind)
		}
		if _, dup := c.kinds[a.Name]; dup {
			return nil, fmt.Errorf("%w: %s.%s: duplicate attribute", ErrInvalidCatalog, c.EntityType, a.Name)
		}
		c.kinds[a.Name] = a.Kind
	}

	seen := make(map[string]bool, len(c.Indexes))
	for _, idx := range c.Indexes {
		if err := c.validateIndex(idx); err != nil {
			return nil, err
		}
		if seen[idx.Name] {
			return nil, fmt.Errorf("%w: %s: duplicate index %q", ErrInvalidCatalog, c.EntityType, idx.Name)
		}
		seen[idx.Name] = true
	}

	if c.OrderAttr != "" {
		if _, ok := c.kinds[c.OrderAttr]; !ok {
			return nil, fmt.Errorf("%w: %s: order attribute %q not declared", ErrInvalidCatalog, c.EntityType, c.OrderAttr)
		}
	}

	return &c, nil
}

func (c *Catalog) validateIndex(idx Index) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s/%s: %s", ErrInvalidCatalog, c.EntityType, idx.Name, fmt.Sprintf(format, args...))
	}

	if idx.Name == "" {
		return fmt.Errorf("%w: %s: index without name", ErrInvalidCatalog, c.EntityType)
	}
	if idx.PartitionKeyAttr == "" || idx.PartitionTemplate == "" {
		return fail("partition key attribute and template are required")
	}
	if idx.Selectivity <= 0 || idx.Selectivity > 1 {
		return fail("selectivity %v outside (0,1]", idx.Selectivity)
	}

	for _, name := range idx.PartitionAttrs() {
		if _, ok := c.kinds[name]; !ok {
			return fail("partition placeholder %q not declared", name)
		}
	}

	if idx.SortAttr != "" {
		if _, ok := c.kinds[idx.SortAttr]; !ok {
			return fail("sort attribute %q not declared", idx.SortAttr)
		}
		if idx.SortKeyAttr == "" {
			return fail("sort attribute requires a sort key attribute")
		}
		if !idx.SortFormat.valid() {
			return fail("unknown sort format %q", idx.SortFormat)
		}
		if want := idx.SortFormat.kind(); c.kinds[idx.SortAttr] != want {
			return fail("sort format %s requires a %s attribute", idx.SortFormat, want)
		}
	} else if len(idx.PartitionAttrs()) == 0 {
		return fail("constant partition requires a sort attribute")
	}

	return nil
}

// Kind returns the kind of a declared attribute.
func (c *Catalog) Kind(attr string) (Kind, bool) {
	k, ok := c.kinds[attr]
	return k, ok
}

// Index returns the index with the given name.
func (c *Catalog) Index(name string) (Index, bool) {
	for _, idx := range c.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return Index{}, false
}

// Shape is the form of a constraint as far as index selection is concerned.
type Shape int

const (
	Equality Shape = iota
	Range
)

// Candidate is an index able to serve part of a request.
type Candidate struct {
	Index Index

	// Coverage lists the requested attributes the index serves natively.
	Coverage []string

	// Position is the index's declaration order in the catalog.
	Position int
}

// Rank scores the catalog's indexes against the constrained attributes.
//
// An index is a candidate when every attribute of its partition template is
// equality-constrained, or, for constant-partition indexes, when its sort
// attribute is constrained. Candidates are ordered by ascending selectivity;
// ties keep declaration order. An empty result means no index applies.
func (c *Catalog) Rank(shapes map[string]Shape) []Candidate {
	var out []Candidate

	for pos, idx := range c.Indexes {
		partition := idx.PartitionAttrs()
		var coverage []string

		if len(partition) > 0 {
			covered := true
			for _, attr := range partition {
				if s, ok := shapes[attr]; !ok || s != Equality {
					covered = false
					break
				}
			}
			if !covered {
				continue
			}
			coverage = append(coverage, partition...)
		}

		if idx.SortAttr != "" {
			if _, ok := shapes[idx.SortAttr]; ok && !contains(coverage, idx.SortAttr) {
				coverage = append(coverage, idx.SortAttr)
			}
		}

		if len(coverage) == 0 {
			continue
		}

		out = append(out, Candidate{Index: idx, Coverage: coverage, Position: pos})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index.Selectivity < out[j].Index.Selectivity
	})

	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
