package renderer

import (
	"fmt"
	"strings"

	"github.com/Wiktwn/mandelbulb-raymarching/uniforms"
	"github.com/go-gl/gl/v4.1-core/gl"
)

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	defer gl.DeleteShader(vertexShader)
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}

type uniformSlot struct {
	location int32
	kind     uniforms.Kind
}

func kindOf(glType uint32) uniforms.Kind {
	switch glType {
	case gl.FLOAT:
		return uniforms.KindFloat
	case gl.INT:
		return uniforms.KindInt
	case gl.BOOL:
		return uniforms.KindBool
	case gl.FLOAT_VEC3:
		return uniforms.KindVec3
	case gl.FLOAT_MAT4:
		return uniforms.KindMat4
	}
	return uniforms.KindUnknown
}

// activeUniforms lists the uniforms the linker kept, keyed by their source
// name. mapped translates source names to the names in the translated code.
func activeUniforms(program uint32, mapped map[string]string) map[string]uniformSlot {
	source := make(map[string]string, len(mapped))
	for name, m := range mapped {
		source[m] = name
	}

	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	buf := make([]uint8, maxLen+1)

	slots := make(map[string]uniformSlot, count)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		active := string(buf[:length])

		name, ok := source[active]
		if !ok {
			name = active
		}
		slots[name] = uniformSlot{
			location: gl.GetUniformLocation(program, gl.Str(active+"\x00")),
			kind:     kindOf(xtype),
		}
	}
	return slots
}
