package metadata

import "fmt"

/** @brief The closed set of member types a uniform block may hold. */
type GlslType uint8

const (
	GlslFloat GlslType = iota
	GlslVec2
	GlslVec3
	GlslVec4
	GlslMat2
	GlslMat3
	GlslMat4
	GlslInt
)

type glslTypeInfo struct {
	name string
	// size is the footprint used by the layout cursor, with vec3 and mat3
	// rounded up to whole 16-byte slots.
	size uint32
	// hostSize is the size of the tightly packed host type.
	hostSize uint32
}

var glslTypes = [...]glslTypeInfo{
	GlslFloat: {"float", 4, 4},
	GlslVec2:  {"vec2", 8, 8},
	GlslVec3:  {"vec3", 16, 12},
	GlslVec4:  {"vec4", 16, 16},
	GlslMat2:  {"mat2", 16, 16},
	GlslMat3:  {"mat3", 48, 36},
	GlslMat4:  {"mat4", 64, 64},
	GlslInt:   {"int", 4, 4},
}

func GlslTypeFromString(s string) (GlslType, error) {
	for i, info := range glslTypes {
		if info.name == s {
			return GlslType(i), nil
		}
	}
	return 0, fmt.Errorf("string %s is not a supported uniform block member type", s)
}

func (t GlslType) String() string {
	if int(t) < len(glslTypes) {
		return glslTypes[t].name
	}
	return fmt.Sprintf("GlslType(%d)", uint8(t))
}

// Size is the number of bytes the member occupies in the layout cursor.
func (t GlslType) Size() uint32 {
	return glslTypes[t].size
}

// HostSize is the number of bytes of the matching host type.
func (t GlslType) HostSize() uint32 {
	return glslTypes[t].hostSize
}

// BaseAlignment is the byte boundary the type starts on inside a block.
func (t GlslType) BaseAlignment() uint32 {
	switch t {
	case GlslVec3, GlslVec4, GlslMat2, GlslMat3, GlslMat4:
		return 16
	}
	return t.Size()
}

// ForcesAlignment reports whether the type always starts a fresh 16-byte slot,
// whatever the preceding cursor state. A 3-component vector or 3x3 matrix still
// consumes 4-component slots on the device side.
func (t GlslType) ForcesAlignment() bool {
	return t == GlslVec3 || t == GlslMat3
}
