package resolver

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/vk/topograph/internal/compspec"
	"github.com/vk/topograph/internal/gtype"
	"github.com/vk/topograph/internal/topology"
)

// foldNode extends the running topology digest with one node: its
// component type, its slot bindings, and the resolved type behind each
// bound slot. Seeding each node's digest with the previous result makes
// the final hash sensitive to node order, so two graphs share a hash only
// when their execution plans are structurally identical.
func foldNode(seed uint64, componentType compspec.ComponentType, indices []topology.SlotIndex, propertyTypes []gtype.PropertyType) uint64 {
	d := xxhash.NewWithSeed(seed)
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(componentType))
	d.Write(buf[:])
	for _, idx := range indices {
		binary.LittleEndian.PutUint64(buf[:], uint64(idx))
		d.Write(buf[:])
	}
	for _, idx := range indices {
		d.Write([]byte{byte(propertyTypes[idx])})
	}
	return d.Sum64()
}
