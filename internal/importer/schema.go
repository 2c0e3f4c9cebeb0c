// Package importer reads and writes order plans: files that give the
// desired display order of one or more content types.
//
// A plan is YAML (JSON is accepted too):
//
//	orders:
//	  projects: [folio, kiln, atlas]
//	  services: [consulting, training]
package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/folio/internal/domain"
	"gopkg.in/yaml.v3"
)

// OrderPlan maps content type names to item ids in the wanted order.
type OrderPlan struct {
	Orders map[string][]string `yaml:"orders"`
}

// LoadOrderPlan reads a plan from path. "-" reads from stdin.
func LoadOrderPlan(path string, stdin io.Reader) (*OrderPlan, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading order plan: %w", err)
	}
	return ParseOrderPlan(data)
}

// ParseOrderPlan decodes a plan. Unknown top-level keys are rejected so a
// misspelled "orders" key does not silently apply nothing.
func ParseOrderPlan(data []byte) (*OrderPlan, error) {
	var plan OrderPlan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parsing order plan: empty document")
		}
		return nil, fmt.Errorf("parsing order plan: %w", err)
	}
	return &plan, nil
}

// Write encodes plan as YAML with content types in their canonical order.
func (p *OrderPlan) Write(w io.Writer) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range p.Entries() {
		ids := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, id := range e.IDs {
			ids.Content = append(ids.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id})
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: string(e.ContentType)}, ids)
	}
	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "orders"}, root,
	}}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing order plan: %w", err)
	}
	return enc.Close()
}

// PlanEntry is one content type of a validated plan.
type PlanEntry struct {
	ContentType domain.ContentType
	IDs         []string
}

// Entries returns the plan's content types in canonical order. Names that
// do not parse are skipped; Validate reports them.
func (p *OrderPlan) Entries() []PlanEntry {
	byType := make(map[domain.ContentType][]string, len(p.Orders))
	for name, ids := range p.Orders {
		ct, err := domain.ParseContentType(name)
		if err != nil {
			continue
		}
		byType[ct] = ids
	}
	var out []PlanEntry
	for _, ct := range domain.ContentTypes {
		if ids, ok := byType[ct]; ok {
			out = append(out, PlanEntry{ContentType: ct, IDs: ids})
		}
	}
	return out
}

// NewOrderPlan builds a plan from loaded item lists.
func NewOrderPlan(lists map[domain.ContentType][]domain.Item) *OrderPlan {
	p := &OrderPlan{Orders: make(map[string][]string, len(lists))}
	for ct, items := range lists {
		p.Orders[string(ct)] = domain.IDs(items)
	}
	return p
}
