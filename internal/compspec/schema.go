package compspec

import "github.com/zclconf/go-cty/cty"

// --- Manifest block schemas ---

// manifestFile is the top-level structure of a component manifest file.
type manifestFile struct {
	Components []*componentBlock `hcl:"component,block"`
}

// componentBlock is one `component "name" { ... }` definition.
type componentBlock struct {
	Name        string           `hcl:"name,label"`
	Version     int              `hcl:"version"`
	LegacyNames []string         `hcl:"legacy_names,optional"`
	Properties  []*propertyBlock `hcl:"property,block"`
	Variants    []*variantBlock  `hcl:"variant,block"`
}

// propertyBlock declares a single property of a component.
type propertyBlock struct {
	Name        string       `hcl:"name,label"`
	IO          string       `hcl:"io"`
	Type        string       `hcl:"type"`
	StorageName string       `hcl:"storage_name,optional"`
	LegacyNames []string     `hcl:"legacy_names,optional"`
	Default     *cty.Value   `hcl:"default,optional"`
	Enum        []*enumBlock `hcl:"enum,block"`
}

// enumBlock maps one authored token to a typed constant.
type enumBlock struct {
	Token string     `hcl:"token,label"`
	Value *cty.Value `hcl:"value"`
}

// variantBlock declares one pre-compiled specialization: the concrete type
// each flexible property resolves to.
type variantBlock struct {
	Resolved map[string]string `hcl:"resolved"`
}
