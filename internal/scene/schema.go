package scene

import "github.com/zclconf/go-cty/cty"

// --- Graph document block schemas ---

// documentFile is the top-level structure of an authored graph document.
type documentFile struct {
	Graphs []*graphBlock `hcl:"graph,block"`
}

// graphBlock is one `graph "/path" { ... }` container. The block body is
// the base layer; each `layer` block stacks a stronger override layer on
// top, in order.
type graphBlock struct {
	Path   string        `hcl:"path,label"`
	Nodes  []*nodeBlock  `hcl:"node,block"`
	Layers []*layerBlock `hcl:"layer,block"`
}

// layerBlock re-opens nodes to override fields at a higher strength.
type layerBlock struct {
	Name  string       `hcl:"name,label"`
	Nodes []*nodeBlock `hcl:"node,block"`
}

// nodeBlock is one node prim. Type and Version are pointers so a missing
// field is distinguishable from an authored empty/zero one.
type nodeBlock struct {
	Name       string           `hcl:"name,label"`
	Type       *string          `hcl:"type,optional"`
	Version    *int             `hcl:"version,optional"`
	Inactive   *bool            `hcl:"inactive,optional"`
	Properties []*propertyBlock `hcl:"property,block"`
}

// propertyBlock authors one field of a node: a literal value, forwarding
// connections, relationship targets, or any combination.
type propertyBlock struct {
	Name        string     `hcl:"name,label"`
	Value       *cty.Value `hcl:"value,optional"`
	Connections []string   `hcl:"connections,optional"`
	Targets     []string   `hcl:"targets,optional"`
}
