package compspec

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/topograph/internal/ctxlog"
	"github.com/vk/topograph/internal/fsutil"
	"github.com/vk/topograph/internal/gtype"
)

// LoadDir parses every component manifest under manifestPath and registers
// the resulting specs and variants.
func (r *Registry) LoadDir(ctx context.Context, manifestPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading component manifests.", "path", manifestPath)

	filePaths, err := fsutil.FindDocuments(manifestPath)
	if err != nil {
		logger.Error("Failed to walk manifest directory", "path", manifestPath, "error", err)
		return err
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path", "path", manifestPath)
		return nil
	}

	parser := hclparse.NewParser()
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse manifest file %s: %s", filePath, diags.Error())
		}
		if err := r.loadFile(ctx, hclFile.Body, filePath); err != nil {
			return fmt.Errorf("failed to process manifest %s: %w", filePath, err)
		}
		logger.Debug("Loaded component manifest.", "file", filePath)
	}

	logger.Info("Component registry loaded.", "components", r.Len())
	return nil
}

// LoadHCL parses manifest source from memory, mainly for tests.
func (r *Registry) LoadHCL(ctx context.Context, src []byte, filename string) error {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse manifest %s: %s", filename, diags.Error())
	}
	return r.loadFile(ctx, hclFile.Body, filename)
}

func (r *Registry) loadFile(ctx context.Context, body hcl.Body, filename string) error {
	var file manifestFile
	if diags := gohcl.DecodeBody(body, nil, &file); diags.HasErrors() {
		return fmt.Errorf("failed to decode manifest: %s", diags.Error())
	}

	for _, block := range file.Components {
		spec, err := specFromBlock(block)
		if err != nil {
			return fmt.Errorf("component %q: %w", block.Name, err)
		}
		if err := r.Register(ctx, spec); err != nil {
			return err
		}
		for i, vb := range block.Variants {
			variant, err := variantFromBlock(spec, vb)
			if err != nil {
				return fmt.Errorf("component %q variant %d: %w", block.Name, i, err)
			}
			if err := r.RegisterVariant(ctx, variant); err != nil {
				return err
			}
		}
	}
	return nil
}

func specFromBlock(block *componentBlock) (*ComponentSpec, error) {
	spec := &ComponentSpec{
		ComponentType: TypeID(block.Name),
		Name:          block.Name,
		Version:       block.Version,
		LegacyNames:   block.LegacyNames,
		Properties:    make([]PropertySpec, 0, len(block.Properties)),
	}

	for _, pb := range block.Properties {
		prop, err := propertyFromBlock(pb)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", pb.Name, err)
		}
		spec.Properties = append(spec.Properties, prop)
	}

	if !spec.Valid() {
		return nil, fmt.Errorf("manifest produced an invalid spec")
	}
	return spec, nil
}

func propertyFromBlock(pb *propertyBlock) (PropertySpec, error) {
	declared, err := gtype.TypeFromKeyword(pb.Type)
	if err != nil {
		return PropertySpec{}, err
	}

	var io IOType
	switch pb.IO {
	case "input":
		io = IOInput
	case "output":
		io = IOOutput
	default:
		return PropertySpec{}, fmt.Errorf("io must be \"input\" or \"output\", got %q", pb.IO)
	}

	storageName := pb.StorageName
	if storageName == "" {
		storageName = pb.Name
	}

	prop := PropertySpec{
		Name:         pb.Name,
		StorageName:  storageName,
		LegacyNames:  pb.LegacyNames,
		IO:           io,
		DeclaredType: declared,
		Type:         declared,
	}

	if len(pb.Enum) > 0 {
		valueType := declared
		if valueType.IsFlexible() {
			return PropertySpec{}, fmt.Errorf("enum tables require a concrete property type")
		}
		prop.EnumValues = make(map[string]gtype.Value, len(pb.Enum))
		for _, eb := range pb.Enum {
			if eb.Value == nil {
				return PropertySpec{}, fmt.Errorf("enum token %q has no value", eb.Token)
			}
			v, err := gtype.FromCty(*eb.Value, valueType, nil)
			if err != nil {
				return PropertySpec{}, fmt.Errorf("enum token %q: %w", eb.Token, err)
			}
			prop.EnumValues[eb.Token] = v
		}
	}

	if pb.Default != nil {
		want := declared
		if want.IsFlexible() {
			// Flexible defaults stay in their authored shape until the
			// resolver picks a concrete type; store the best literal guess.
			want = gtype.Float
			if pb.Default.Type() == cty.String {
				inferred, _ := gtype.InferTypeFromLiteral(pb.Default.AsString())
				want = inferred
			}
		}
		v, err := gtype.FromCty(*pb.Default, want, prop.EnumValues)
		if err != nil {
			return PropertySpec{}, fmt.Errorf("default value: %w", err)
		}
		prop.Default = v
	} else {
		prop.Default = gtype.ZeroValue(declared)
	}

	return prop, nil
}

// variantFromBlock derives a pre-resolved spec from the base spec plus a
// variant block's resolved-type table.
func variantFromBlock(base *ComponentSpec, vb *variantBlock) (*ComponentSpec, error) {
	if len(vb.Resolved) == 0 {
		return nil, fmt.Errorf("variant has an empty resolved table")
	}

	resolved := make(map[string]gtype.PropertyType, len(vb.Resolved))
	for name, keyword := range vb.Resolved {
		t, err := gtype.TypeFromKeyword(keyword)
		if err != nil {
			return nil, err
		}
		if !t.IsConcrete() {
			return nil, fmt.Errorf("variant type for %q must be concrete, got %s", name, t)
		}
		prop := base.Property(name)
		if prop == nil {
			return nil, fmt.Errorf("variant resolves unknown property %q", name)
		}
		if !prop.DeclaredType.IsFlexible() {
			return nil, fmt.Errorf("variant resolves non-flexible property %q", name)
		}
		resolved[name] = t
	}

	variant := &ComponentSpec{
		ComponentType: base.ComponentType,
		Name:          base.Name,
		Version:       base.Version,
		Properties:    make([]PropertySpec, len(base.Properties)),
		ResolvedTypes: resolved,
	}
	copy(variant.Properties, base.Properties)
	for i := range variant.Properties {
		p := &variant.Properties[i]
		if t, ok := resolved[p.Name]; ok {
			p.Type = t
			p.Default = gtype.Convert(p.Default, t)
		}
	}
	return variant, nil
}
