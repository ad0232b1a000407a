// Package layout plans the host-side memory layout of uniform blocks.
//
// The rules approximate std140: members are packed into 16-byte slots, a
// member that would straddle a slot boundary starts the next slot, and vec3
// and mat3 members always start a fresh slot. Array strides and nested
// structs are not handled.
package layout

import (
	"golang.org/x/exp/constraints"

	"github.com/spaghettifunk/shadergen/generator/metadata"
)

// SlotSize is the size of one std140 vector slot in bytes.
const SlotSize uint32 = 16

// hostAlignment is the natural alignment of the host scalar and vector types.
const hostAlignment uint32 = 4

// AlignUp rounds v up to the next multiple of align.
func AlignUp[T constraints.Integer](v, align T) T {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

// Plan returns a copy of members with Aligned and Offset filled in, plus the
// size of the resulting host struct. members is not modified, and planning the
// same sequence twice yields the same result.
func Plan(members []metadata.BlockMember) ([]metadata.BlockMember, uint32) {
	planned := make([]metadata.BlockMember, len(members))

	var (
		// cursor counts the bytes placed since the last forced slot boundary.
		cursor    uint32
		offset    uint32
		structAln = hostAlignment
	)
	for i, m := range members {
		size := m.Type.Size()
		remaining := SlotSize - cursor%SlotSize

		m.Aligned = (size > remaining && remaining != SlotSize) || m.Type.ForcesAlignment()
		if m.Aligned {
			cursor = 0
			offset = AlignUp(offset, SlotSize)
			structAln = SlotSize
		}
		m.Offset = offset

		cursor += size
		offset += m.Type.HostSize()
		planned[i] = m
	}
	return planned, AlignUp(offset, structAln)
}

// PlanBlock plans b in place.
func PlanBlock(b *metadata.UniformBlock) {
	b.Members, b.Size = Plan(b.Members)
}

// PlanReflection plans every uniform block of r in place.
func PlanReflection(r *metadata.ShaderReflection) {
	for i := range r.Blocks {
		PlanBlock(&r.Blocks[i])
	}
}
