package scene

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/topograph/internal/ctxlog"
	"github.com/vk/topograph/internal/fsutil"
)

// Document is a Graph backed by a layered HCL graph block.
type Document struct {
	path   string
	order  []string
	byPath map[string]*nodeState
}

type nodeState struct {
	path     string
	typeName *string
	version  *int
	inactive bool
	fields   map[string]*fieldState
}

type fieldState struct {
	value       *cty.Value
	connections []string
	targets     []string
	hasTargets  bool
	strength    int
}

// DecodeFile parses a single graph document file into its graphs.
func DecodeFile(ctx context.Context, filePath string) ([]*Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding graph document.", "path", filePath)
	hclFile, diags := hclparse.NewParser().ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse graph document %s: %s", filePath, diags.Error())
	}

	var file documentFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode graph document %s: %s", filePath, diags.Error())
	}

	docs := make([]*Document, 0, len(file.Graphs))
	for _, gb := range file.Graphs {
		docs = append(docs, buildDocument(gb))
	}
	logger.Debug("Decoded graph document.", "path", filePath, "graphs", len(docs))
	return docs, nil
}

// DecodeHCL parses graph document source from memory, mainly for tests.
func DecodeHCL(ctx context.Context, src []byte, filename string) ([]*Document, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse graph document %s: %s", filename, diags.Error())
	}
	var file documentFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode graph document %s: %s", filename, diags.Error())
	}
	docs := make([]*Document, 0, len(file.Graphs))
	for _, gb := range file.Graphs {
		docs = append(docs, buildDocument(gb))
	}
	return docs, nil
}

// LoadDir parses every graph document under rootPath.
func LoadDir(ctx context.Context, rootPath string) ([]*Document, error) {
	filePaths, err := fsutil.FindDocuments(rootPath)
	if err != nil {
		return nil, err
	}
	var docs []*Document
	for _, filePath := range filePaths {
		fileDocs, err := DecodeFile(ctx, filePath)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fileDocs...)
	}
	return docs, nil
}

// buildDocument flattens a graph block and its layers. The block body is
// layer 0; each layer block stacks on top with increasing strength.
func buildDocument(gb *graphBlock) *Document {
	doc := &Document{
		path:   gb.Path,
		byPath: make(map[string]*nodeState),
	}
	for _, nb := range gb.Nodes {
		doc.applyNode(0, nb)
	}
	for i, lb := range gb.Layers {
		for _, nb := range lb.Nodes {
			doc.applyNode(i+1, nb)
		}
	}
	return doc
}

func (d *Document) applyNode(layer int, nb *nodeBlock) {
	ns, ok := d.byPath[nb.Name]
	if !ok {
		ns = &nodeState{path: nb.Name, fields: make(map[string]*fieldState)}
		d.byPath[nb.Name] = ns
		d.order = append(d.order, nb.Name)
	}
	// Layers are applied weakest to strongest, so a plain overwrite keeps
	// the strongest authored opinion.
	if nb.Type != nil {
		ns.typeName = nb.Type
	}
	if nb.Version != nil {
		ns.version = nb.Version
	}
	if nb.Inactive != nil {
		ns.inactive = *nb.Inactive
	}
	for _, pb := range nb.Properties {
		fs, ok := ns.fields[pb.Name]
		if !ok {
			fs = &fieldState{strength: -1}
			ns.fields[pb.Name] = fs
		}
		fs.strength = layer
		if pb.Value != nil {
			v := *pb.Value
			fs.value = &v
		}
		// Connections accumulate across layers; later entries are newer.
		fs.connections = append(fs.connections, pb.Connections...)
		if pb.Targets != nil {
			fs.targets = pb.Targets
			fs.hasTargets = true
		}
	}
}

// --- Graph interface ---

func (d *Document) Path() string { return d.path }

func (d *Document) Nodes() []Node {
	nodes := make([]Node, 0, len(d.order))
	for _, path := range d.order {
		ns := d.byPath[path]
		if ns.inactive {
			continue
		}
		nodes = append(nodes, ns)
	}
	return nodes
}

func (d *Document) Node(path string) (Node, bool) {
	ns, ok := d.byPath[path]
	if !ok || ns.inactive {
		return nil, false
	}
	return ns, true
}

// --- Node interface ---

func (n *nodeState) Path() string { return n.path }

func (n *nodeState) TypeName() (string, bool) {
	if n.typeName == nil {
		return "", false
	}
	return *n.typeName, true
}

func (n *nodeState) TypeVersion() (int, bool) {
	if n.version == nil {
		return 0, false
	}
	return *n.version, true
}

func (n *nodeState) Authored(field string) bool {
	_, ok := n.fields[field]
	return ok
}

func (n *nodeState) Strength(field string) int {
	fs, ok := n.fields[field]
	if !ok {
		return -1
	}
	return fs.strength
}

func (n *nodeState) Value(field string) (cty.Value, bool) {
	fs, ok := n.fields[field]
	if !ok || fs.value == nil {
		return cty.NilVal, false
	}
	return *fs.value, true
}

func (n *nodeState) Connections(field string) []string {
	fs, ok := n.fields[field]
	if !ok {
		return nil
	}
	return fs.connections
}

func (n *nodeState) Targets(field string) ([]string, bool) {
	fs, ok := n.fields[field]
	if !ok || !fs.hasTargets {
		return nil, false
	}
	return fs.targets, true
}
