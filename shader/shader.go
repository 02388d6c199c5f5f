package shader

import "strings"

// Source is the raw vertex and fragment code as authored for WebGL2. Authors
// write the body only; the built-in uniforms and attributes a three.js
// ShaderMaterial would inject are added by Compose.
type Source struct {
	Vertex   string
	Fragment string
}

// ─────────────────────────────── WebGL2 preambles ───────────────────────────────

const vertexPreamble = `#version 300 es
#define attribute in
#define varying out
#define texture2D texture
precision highp float;
precision highp int;

uniform mat4 modelMatrix;
uniform mat4 modelViewMatrix;
uniform mat4 projectionMatrix;
uniform mat4 viewMatrix;
uniform vec3 cameraPosition;

layout(location = 0) in vec3 position;
layout(location = 1) in vec2 uv;
`

const fragmentPreamble = `#version 300 es
#define varying in
#define texture2D texture
layout(location = 0) out highp vec4 pc_fragColor;
#define gl_FragColor pc_fragColor
precision highp float;
precision highp int;

uniform mat4 viewMatrix;
uniform vec3 cameraPosition;
`

// Built-in uniform names supplied by the renderer on every draw.
const (
	ModelMatrix      = "modelMatrix"
	ModelViewMatrix  = "modelViewMatrix"
	ProjectionMatrix = "projectionMatrix"
	ViewMatrix       = "viewMatrix"
	CameraPosition   = "cameraPosition"
)

// Attribute locations fixed by the vertex preamble.
const (
	PositionLocation = 0
	UVLocation       = 1
)

// Compose returns complete GLSL ES 3.00 vertex and fragment shaders.
func (s Source) Compose() (vertex, fragment string) {
	return vertexPreamble + "\n" + stripVersion(s.Vertex),
		fragmentPreamble + "\n" + stripVersion(s.Fragment)
}

// stripVersion drops a leading #version directive so user code written as a
// standalone shader still composes. Only the first non-blank line is checked.
func stripVersion(code string) string {
	trimmed := strings.TrimLeft(code, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#version") {
		return code
	}
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		return trimmed[i+1:]
	}
	return ""
}
