package uniforms

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the GLSL type a shader declares a uniform with.
type Kind int

const (
	KindUnknown Kind = iota
	KindFloat
	KindInt
	KindBool
	KindVec3
	KindMat4
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindVec3:
		return "vec3"
	case KindMat4:
		return "mat4"
	}
	return "unknown"
}

// KindOf returns the natural GLSL type of a table value.
func KindOf(v any) Kind {
	switch v.(type) {
	case float32:
		return KindFloat
	case int32:
		return KindInt
	case mgl32.Vec3:
		return KindVec3
	case mgl32.Mat4:
		return KindMat4
	}
	return KindUnknown
}

// Coerce converts a table value to what a shader declared. Scalars convert
// freely, so a step count stored as int32 can feed a float uniform and the
// other way round; booleans become 0 or 1. Vectors and matrices must match.
func Coerce(v any, want Kind) (any, error) {
	have := KindOf(v)
	if have == want {
		return v, nil
	}

	var f float32
	switch x := v.(type) {
	case float32:
		f = x
	case int32:
		f = float32(x)
	default:
		return nil, fmt.Errorf("%w: %s value for %s uniform", ErrTypeMismatch, have, want)
	}

	switch want {
	case KindFloat:
		return f, nil
	case KindInt:
		return int32(math.Round(float64(f))), nil
	case KindBool:
		if f != 0 {
			return int32(1), nil
		}
		return int32(0), nil
	}
	return nil, fmt.Errorf("%w: %s value for %s uniform", ErrTypeMismatch, have, want)
}
