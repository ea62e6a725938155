package compspec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/topograph/internal/gtype"
)

const sampleManifest = `
component "test.Oscillator" {
  version      = 2
  legacy_names = ["test.Osc"]

  property "inputs:frequency" {
    io      = "input"
    type    = "float"
    default = 1.0
  }

  property "inputs:waveform" {
    io   = "input"
    type = "enum"

    enum "Sine" {
      value = 0
    }
    enum "Square" {
      value = 1
    }

    default = "Sine"
  }

  property "outputs:value" {
    io           = "output"
    type         = "float"
    storage_name = "outputs:out"
    legacy_names = ["outputs:result"]
  }
}

component "test.Add" {
  version = 1

  property "inputs:a" {
    io   = "input"
    type = "numberOrVector"
  }
  property "outputs:sum" {
    io   = "output"
    type = "numberOrVector"
  }

  variant {
    resolved = {
      "inputs:a"    = "float"
      "outputs:sum" = "float"
    }
  }
  variant {
    resolved = {
      "inputs:a"    = "float3"
      "outputs:sum" = "float3"
    }
  }
}
`

func TestLoadHCL(t *testing.T) {
	ctx := context.Background()
	r := New()
	require.NoError(t, r.LoadHCL(ctx, []byte(sampleManifest), "manifest.hcl"))
	assert.Equal(t, 2, r.Len())

	t.Run("base spec fields", func(t *testing.T) {
		spec := r.Spec(TypeID("test.Oscillator"))
		require.NotNil(t, spec)
		assert.Equal(t, "test.Oscillator", spec.Name)
		assert.Equal(t, 2, spec.Version)
		require.Len(t, spec.Properties, 3)

		freq := spec.Property("inputs:frequency")
		require.NotNil(t, freq)
		assert.Equal(t, IOInput, freq.IO)
		assert.Equal(t, gtype.Float, freq.Type)
		assert.Equal(t, gtype.FloatValue(1), freq.Default)
	})

	t.Run("legacy component name aliases", func(t *testing.T) {
		assert.Same(t, r.Spec(TypeID("test.Oscillator")), r.Spec(TypeID("test.Osc")))
	})

	t.Run("enum table and token default", func(t *testing.T) {
		wave := r.Spec(TypeID("test.Oscillator")).Property("inputs:waveform")
		require.NotNil(t, wave)
		assert.Equal(t, gtype.EnumValue(0), wave.EnumValues["Sine"])
		assert.Equal(t, gtype.EnumValue(1), wave.EnumValues["Square"])
		assert.Equal(t, gtype.EnumValue(0), wave.Default)
	})

	t.Run("storage and legacy property names", func(t *testing.T) {
		out := r.Spec(TypeID("test.Oscillator")).Property("outputs:value")
		require.NotNil(t, out)
		assert.Equal(t, "outputs:out", out.StorageName)
		assert.Equal(t, []string{"outputs:result"}, out.LegacyNames)
	})

	t.Run("variants compile in order", func(t *testing.T) {
		variants := r.Variants(TypeID("test.Add"))
		require.Len(t, variants, 2)
		assert.Equal(t, gtype.Float, variants[0].ResolvedTypes["inputs:a"])
		assert.Equal(t, gtype.Float3, variants[1].ResolvedTypes["inputs:a"])

		// Variant properties carry the concrete type while the declared type
		// stays flexible.
		a := variants[1].Property("inputs:a")
		require.NotNil(t, a)
		assert.Equal(t, gtype.NumberOrVector, a.DeclaredType)
		assert.Equal(t, gtype.Float3, a.Type)
	})
}

func TestLoadHCLErrors(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		manifest string
		wantErr  string
	}{
		{
			name: "bad io",
			manifest: `
component "x" {
  version = 1
  property "a" {
    io   = "sideways"
    type = "float"
  }
}`,
			wantErr: "io must be",
		},
		{
			name: "unknown type keyword",
			manifest: `
component "x" {
  version = 1
  property "a" {
    io   = "input"
    type = "quaternion"
  }
}`,
			wantErr: "unknown property type keyword",
		},
		{
			name: "variant resolving unknown property",
			manifest: `
component "x" {
  version = 1
  property "a" {
    io   = "input"
    type = "any"
  }
  variant {
    resolved = { "b" = "float" }
  }
}`,
			wantErr: "unknown property",
		},
		{
			name: "variant resolving non-flexible property",
			manifest: `
component "x" {
  version = 1
  property "a" {
    io   = "input"
    type = "float"
  }
  variant {
    resolved = { "a" = "float" }
  }
}`,
			wantErr: "non-flexible",
		},
		{
			name: "enum on flexible type",
			manifest: `
component "x" {
  version = 1
  property "a" {
    io   = "input"
    type = "any"
    enum "A" {
      value = 0
    }
  }
}`,
			wantErr: "enum tables require a concrete property type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := New().LoadHCL(ctx, []byte(tc.manifest), "bad.hcl")
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
