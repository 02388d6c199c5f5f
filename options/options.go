package options

// RaymarchOptions holds the command-line configuration. Fields are pointers so
// they can be bound directly to flag definitions.
type RaymarchOptions struct {
	Help           *bool
	Demo           *string // "orbit" or "fractal"
	VertexShader   *string // file path or http(s) URL
	FragmentShader *string // file path or http(s) URL
	Width          *int
	Height         *int
	FOV            *float64 // vertical field of view in degrees
	Near           *float64
	Far            *float64
	Debug          *bool
	Mic            *bool // feed the default input device into the audio uniforms

	// Recording options
	Record     *bool
	Duration   *float64
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
}

// Default values shared by the command line and tests.
const (
	DefaultWidth          = 1280
	DefaultHeight         = 720
	DefaultFOV            = 75.0
	DefaultNear           = 0.1
	DefaultFar            = 1000.0
	DefaultVertexShader   = "scripts/shaders/vertex.glsl"
	DefaultFragmentShader = "scripts/shaders/frag.glsl"
)
