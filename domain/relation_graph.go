package domain

// RelationKind represents the kind of relation an edge expresses
type RelationKind string

const (
	// RelationKindReference represents a reference to a standalone model
	RelationKindReference RelationKind = "reference"

	// RelationKindComposition represents embedding of a reusable component
	RelationKindComposition RelationKind = "composition"
)

// CostTier represents the estimated query cost of traversing a path
type CostTier string

const (
	CostTierLow    CostTier = "low"
	CostTierMedium CostTier = "medium"
	CostTierHigh   CostTier = "high"
)

// EntityNode represents an entity in the relation graph
type EntityNode struct {
	// Name is the entity name (unique node ID)
	Name string `json:"name"`

	// IsComponent marks reusable sub-structures
	IsComponent bool `json:"is_component"`

	// FieldCount is the number of declared fields
	FieldCount int `json:"field_count"`

	// Order is the declaration index of the entity in the schema
	Order int `json:"order"`
}

// RelationEdge represents a directed reference induced by a field
type RelationEdge struct {
	// From is the source entity name
	From string `json:"from"`

	// To is the target entity name
	To string `json:"to"`

	// Field is the name of the field that induced the edge
	Field string `json:"field"`

	// Kind distinguishes model references from component composition
	Kind RelationKind `json:"kind"`

	// List indicates a one-to-many relation
	List bool `json:"list,omitempty"`
}

// IsSelfReference reports whether the edge points back at its source
func (e *RelationEdge) IsSelfReference() bool {
	return e.From == e.To
}

// RelationGraph is the directed relation graph built once per audit run.
// It is never mutated after construction; traversals keep their own state.
type RelationGraph struct {
	// Nodes maps entity name to node
	Nodes map[string]*EntityNode `json:"nodes"`

	// Order lists entity names in declaration order
	Order []string `json:"order"`

	// Edges maps source entity to its outgoing edges in field order (parallel edges kept)
	Edges map[string][]*RelationEdge `json:"edges"`

	// Adjacency maps source entity to distinct targets in first-seen order
	Adjacency map[string][]string `json:"adjacency"`

	// ReverseRefs maps target entity to distinct referencing entities in first-seen order
	ReverseRefs map[string][]string `json:"reverse_refs"`

	// Dangling lists reference fields whose target is not in the graph
	Dangling []DanglingReference `json:"dangling,omitempty"`
}

// NewRelationGraph creates a new empty RelationGraph
func NewRelationGraph() *RelationGraph {
	return &RelationGraph{
		Nodes:       make(map[string]*EntityNode),
		Edges:       make(map[string][]*RelationEdge),
		Adjacency:   make(map[string][]string),
		ReverseRefs: make(map[string][]string),
	}
}

// AddNode adds a node to the graph, keeping declaration order
func (g *RelationGraph) AddNode(node *EntityNode) {
	if node == nil {
		return
	}
	if _, exists := g.Nodes[node.Name]; !exists {
		g.Order = append(g.Order, node.Name)
	}
	g.Nodes[node.Name] = node
}

// AddEdge adds an edge and updates the adjacency and reverse indexes
func (g *RelationGraph) AddEdge(edge *RelationEdge) {
	if edge == nil {
		return
	}
	g.Edges[edge.From] = append(g.Edges[edge.From], edge)
	g.Adjacency[edge.From] = appendUnique(g.Adjacency[edge.From], edge.To)
	g.ReverseRefs[edge.To] = appendUnique(g.ReverseRefs[edge.To], edge.From)
}

// GetNode returns a node by name
func (g *RelationGraph) GetNode(name string) *EntityNode {
	return g.Nodes[name]
}

// Neighbors returns the distinct targets of an entity in insertion order
func (g *RelationGraph) Neighbors(name string) []string {
	return g.Adjacency[name]
}

// GetOutgoingEdges returns all edges leaving an entity
func (g *RelationGraph) GetOutgoingEdges(name string) []*RelationEdge {
	return g.Edges[name]
}

// ReferencedBy returns the distinct entities referencing the given entity
func (g *RelationGraph) ReferencedBy(name string) []string {
	return g.ReverseRefs[name]
}

// HasEdge reports whether an edge from -> to exists
func (g *RelationGraph) HasEdge(from, to string) bool {
	for _, n := range g.Adjacency[from] {
		if n == to {
			return true
		}
	}
	return false
}

// FieldsBetween returns the names of fields inducing edges from -> to
func (g *RelationGraph) FieldsBetween(from, to string) []string {
	var fields []string
	for _, e := range g.Edges[from] {
		if e.To == to {
			fields = append(fields, e.Field)
		}
	}
	return fields
}

// NodeCount returns the number of nodes
func (g *RelationGraph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of edges, counting parallel edges
func (g *RelationGraph) EdgeCount() int {
	count := 0
	for _, edges := range g.Edges {
		count += len(edges)
	}
	return count
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// DanglingReference is a reference field whose target entity does not exist
type DanglingReference struct {
	Entity string `json:"entity" yaml:"entity"`
	Field  string `json:"field" yaml:"field"`
	Target string `json:"target" yaml:"target"`
}

// BidirectionalPair is two entities referencing each other directly.
// A is always the lexicographically smaller name.
type BidirectionalPair struct {
	A        string   `json:"a" yaml:"a"`
	B        string   `json:"b" yaml:"b"`
	FieldsAB []string `json:"fields_ab" yaml:"fields_ab"`
	FieldsBA []string `json:"fields_ba" yaml:"fields_ba"`
}

// Key returns the unordered pair key
func (p BidirectionalPair) Key() string {
	return p.A + "<->" + p.B
}

// Cycle is a closed path through at least three distinct entities.
// Entities starts at the smallest name; the last entity links back to the first.
type Cycle struct {
	Entities []string `json:"entities" yaml:"entities"`
	Length   int      `json:"length" yaml:"length"`
}

// CycleAnalysis holds the output of the cycle and bidirectional classifier
type CycleAnalysis struct {
	Cycles             []Cycle             `json:"cycles" yaml:"cycles"`
	BidirectionalPairs []BidirectionalPair `json:"bidirectional_pairs" yaml:"bidirectional_pairs"`
	SelfReferences     []string            `json:"self_references,omitempty" yaml:"self_references,omitempty"`

	// Truncated is set when a search cap stopped the cycle search early
	Truncated bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// RelationPath is an ordered, non-repeating chain of entities
type RelationPath struct {
	Entities []string `json:"entities" yaml:"entities"`
	Hops     int      `json:"hops" yaml:"hops"`
	Cost     CostTier `json:"cost" yaml:"cost"`
}

// Start returns the first entity of the path
func (p RelationPath) Start() string {
	if len(p.Entities) == 0 {
		return ""
	}
	return p.Entities[0]
}

// End returns the last entity of the path
func (p RelationPath) End() string {
	if len(p.Entities) == 0 {
		return ""
	}
	return p.Entities[len(p.Entities)-1]
}

// PathAnalysis holds the output of the bounded path explorer
type PathAnalysis struct {
	Paths     []RelationPath `json:"paths" yaml:"paths"`
	Truncated bool           `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// CountByCost returns the number of paths in the given cost tier
func (a *PathAnalysis) CountByCost(tier CostTier) int {
	if a == nil {
		return 0
	}
	count := 0
	for _, p := range a.Paths {
		if p.Cost == tier {
			count++
		}
	}
	return count
}

// NestingDepth is the deepest component containment chain under one component
type NestingDepth struct {
	Entity     string   `json:"entity" yaml:"entity"`
	Depth      int      `json:"depth" yaml:"depth"`
	Path       []string `json:"path" yaml:"path"`
	HasListHop bool     `json:"has_list_hop" yaml:"has_list_hop"`
}
