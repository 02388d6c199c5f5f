package uniforms

import "github.com/go-gl/mathgl/mgl32"

// Uniform identifiers consumed by the fragment shaders.
const (
	// raymarching
	Threshold      = "u_threshold"
	MaxDistance    = "u_max_distance"
	MaxSteps       = "u_max_steps"
	Glow           = "u_glow"
	PowerAmplitude = "u_power_amplitude"
	PowerOffset    = "u_power_offset"

	// camera
	ClearColor        = "u_clear_color"
	CameraPosition    = "u_camera_position"
	CameraToWorld     = "u_camera_to_world_mat"
	CameraInverseProj = "u_camera_inverse_proj_mat"

	// lighting
	LightDirection    = "u_light_direction"
	LightColor        = "u_light_color"
	DiffuseIntensity  = "u_diffuse_intensity"
	SpecularIntensity = "u_spectral_intensity"
	AmbientIntensity  = "u_ambient_intensity"
	Shininess         = "u_shininess"

	// time
	Time      = "u_time"
	TimeScale = "u_time_scale"

	// microphone, only declared when audio is enabled
	AudioLevel = "u_audio_level"
	AudioBass  = "u_audio_bass"
)

const (
	DefaultThreshold    float32 = 0.0001
	DefaultOrbitSteps   int32   = 100
	DefaultFractalSteps int32   = 200
	DefaultGlow         float32 = 0.6
	DefaultPowerAmp     float32 = 4
	DefaultPowerOffset  float32 = 8
	DefaultDiffuse      float32 = 0.5
	DefaultSpecular     float32 = 1.5
	DefaultAmbient      float32 = 0.15
	DefaultShininess    float32 = 32
)

// SceneConfig carries the values shared by both presets that come from the
// scene setup rather than from fixed defaults.
type SceneConfig struct {
	Far            float32
	ClearColor     mgl32.Vec3
	LightDirection mgl32.Vec3
	LightColor     mgl32.Vec3
	Audio          bool
}

// DefaultSceneConfig mirrors a black background with a white light at (1, 1, 1).
func DefaultSceneConfig(far float32) SceneConfig {
	return SceneConfig{
		Far:            far,
		ClearColor:     mgl32.Vec3{0, 0, 0},
		LightDirection: mgl32.Vec3{1, 1, 1},
		LightColor:     mgl32.Vec3{1, 1, 1},
	}
}

func commonEntries(cfg SceneConfig, steps int32) []Entry {
	entries := []Entry{
		{Threshold, DefaultThreshold},
		{MaxDistance, cfg.Far},
		{MaxSteps, steps},

		{ClearColor, cfg.ClearColor},
		{CameraPosition, mgl32.Vec3{}},
		{CameraToWorld, mgl32.Ident4()},
		{CameraInverseProj, mgl32.Ident4()},

		{LightDirection, cfg.LightDirection},
		{LightColor, cfg.LightColor},
		{DiffuseIntensity, DefaultDiffuse},
		{SpecularIntensity, DefaultSpecular},
		{AmbientIntensity, DefaultAmbient},
		{Shininess, DefaultShininess},

		{Time, float32(0)},
	}
	if cfg.Audio {
		entries = append(entries,
			Entry{AudioLevel, float32(0)},
			Entry{AudioBass, float32(0)},
		)
	}
	return entries
}

// NewOrbitTable returns the uniform set of the orbit demo.
func NewOrbitTable(cfg SceneConfig) *Table {
	t, err := NewTable(commonEntries(cfg, DefaultOrbitSteps)...)
	if err != nil {
		panic(err) // preset entries are static
	}
	return t
}

// NewFractalTable returns the uniform set of the fractal demo, which adds glow,
// power modulation and a time scale to the orbit set.
func NewFractalTable(cfg SceneConfig) *Table {
	entries := append(commonEntries(cfg, DefaultFractalSteps),
		Entry{Glow, DefaultGlow},
		Entry{PowerAmplitude, DefaultPowerAmp},
		Entry{PowerOffset, DefaultPowerOffset},
		Entry{TimeScale, float32(1)},
	)
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}
