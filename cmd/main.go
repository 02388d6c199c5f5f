package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/Wiktwn/mandelbulb-raymarching/audio"
	"github.com/Wiktwn/mandelbulb-raymarching/clock"
	"github.com/Wiktwn/mandelbulb-raymarching/demo"
	"github.com/Wiktwn/mandelbulb-raymarching/encoder"
	"github.com/Wiktwn/mandelbulb-raymarching/frame"
	"github.com/Wiktwn/mandelbulb-raymarching/glfwcontext"
	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	"github.com/Wiktwn/mandelbulb-raymarching/options"
	"github.com/Wiktwn/mandelbulb-raymarching/record"
	"github.com/Wiktwn/mandelbulb-raymarching/renderer"
	"github.com/Wiktwn/mandelbulb-raymarching/shader"
)

func init() {
	runtime.LockOSThread()
}

func parseOptions() *options.RaymarchOptions {
	opts := &options.RaymarchOptions{
		Help:           flag.Bool("help", false, "Show help message"),
		Demo:           flag.String("demo", "fractal", "Demo to run: orbit or fractal"),
		VertexShader:   flag.String("vertex", options.DefaultVertexShader, "Vertex shader path or http(s) URL"),
		FragmentShader: flag.String("fragment", options.DefaultFragmentShader, "Fragment shader path or http(s) URL"),
		Width:          flag.Int("width", options.DefaultWidth, "Window width"),
		Height:         flag.Int("height", options.DefaultHeight, "Window height"),
		FOV:            flag.Float64("fov", options.DefaultFOV, "Vertical field of view in degrees"),
		Near:           flag.Float64("near", options.DefaultNear, "Near clip plane"),
		Far:            flag.Float64("far", options.DefaultFar, "Far clip plane, also the raymarch distance limit"),
		Debug:          flag.Bool("debug", false, "Enable debug logging"),
		Mic:            flag.Bool("mic", false, "Drive u_audio_level and u_audio_bass from the default microphone"),

		Record:     flag.Bool("record", false, "Render offscreen to a video file instead of a window"),
		Duration:   flag.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        flag.Int("fps", 60, "Frames per second for recording"),
		OutputFile: flag.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath: flag.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      flag.String("codec", encoder.DefaultCodec, "Video codec for recording"),
	}
	flag.Parse()
	return opts
}

func main() {
	opts := parseOptions()
	if *opts.Help {
		fmt.Println("Raymarching demos")
		flag.PrintDefaults()
		return
	}
	log := logging.New("raymarch", *opts.Debug)
	os.Exit(run(opts, log))
}

func run(opts *options.RaymarchOptions, log logging.Logger) int {
	kind, err := demo.ParseKind(*opts.Demo)
	if err != nil {
		log.Errorf("%v", err)
		return 2
	}

	ctx := context.Background()
	// shaders load while the window comes up
	pending := shader.Fetch(ctx, *opts.VertexShader, *opts.FragmentShader)

	if err := glfwcontext.InitGraphics(log); err != nil {
		log.Errorf("Failed to initialize graphics: %v", err)
		return 1
	}
	defer glfwcontext.TerminateGraphics(log)

	window, err := glfwcontext.New(glfwcontext.Config{
		Width:   *opts.Width,
		Height:  *opts.Height,
		Title:   kind.Title(),
		Prompt:  kind.Prompt(),
		Visible: !*opts.Record,
	})
	if err != nil {
		log.Errorf("Failed to create window: %v", err)
		return 1
	}
	defer window.Shutdown()

	return startWhenReady(pending, os.Stderr, log, func(src shader.Source) int {
		return runLoaded(ctx, opts, kind, window, src, log)
	})
}

const loadAlert = "Error loading GLSL file!"

// startWhenReady joins the shader fetch; start runs only once both sources
// are loaded. On failure the alert line goes to the user and nothing starts.
func startWhenReady(pending *shader.Pending, alert io.Writer, log logging.Logger, start func(src shader.Source) int) int {
	src, err := pending.Wait()
	if err != nil {
		fmt.Fprintln(alert, loadAlert)
		log.Errorf("%v", err)
		return 1
	}
	return start(src)
}

func runLoaded(ctx context.Context, opts *options.RaymarchOptions, kind demo.Kind, window *glfwcontext.Context, src shader.Source, log logging.Logger) int {
	r, err := renderer.New(ctx, window, src, renderer.WithLogger(log))
	if err != nil {
		log.Errorf("Failed to create renderer: %v", err)
		return 1
	}
	defer r.Shutdown()

	width, height := window.FramebufferSize()
	cfg := demo.Config{
		Width:  width,
		Height: height,
		FOV:    float32(*opts.FOV),
		Near:   float32(*opts.Near),
		Far:    float32(*opts.Far),
		Now:    window.Time,
		Log:    log,
	}
	if *opts.Record {
		return runRecord(opts, cfg, kind, r, log)
	}

	loopOptions := []frame.Option{
		frame.WithTelemetry(window),
		frame.WithLogger(log),
	}
	if *opts.Mic {
		if analyzer, stop := startMicrophone(log); analyzer != nil {
			defer stop()
			cfg.Audio = true
			loopOptions = append(loopOptions, frame.WithModulator(analyzer))
		}
	}

	d, err := demo.New(kind, cfg)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}
	for _, name := range r.Unbound(d.State.Uniforms) {
		log.Warnf("shader uniform %s has no value", name)
	}

	status := 0
	loop := frame.NewLoop(d.State, r, window, append(loopOptions,
		frame.WithFatalHandler(func(err error) {
			status = 1
			window.Close()
		}),
	)...)
	window.SetHandler(d.NewRouter(window, loop, log))

	if err := loop.Start(); err != nil {
		log.Errorf("Failed to start frame loop: %v", err)
		return 1
	}
	log.Infof("Starting %s demo...", kind)
	window.Run()
	loop.Stop()
	return status
}

// startMicrophone returns nil when no input device can be opened; the demo
// then runs without the audio uniforms.
func startMicrophone(log logging.Logger) (*audio.Analyzer, func()) {
	mic, err := audio.NewMicrophone(audio.DefaultSampleRate, log)
	if err != nil {
		log.Warnf("Could not initialize microphone: %v", err)
		return nil, nil
	}
	samples, err := mic.Start()
	if err != nil {
		log.Warnf("Could not start microphone: %v", err)
		mic.Stop()
		return nil, nil
	}
	analyzer := audio.NewAnalyzer(mic.SampleRate())
	go analyzer.Consume(samples)
	return analyzer, func() {
		if err := mic.Stop(); err != nil {
			log.Warnf("Failed to stop microphone: %v", err)
		}
	}
}

func runRecord(opts *options.RaymarchOptions, cfg demo.Config, kind demo.Kind, r *renderer.Renderer, log logging.Logger) int {
	src := &clock.Manual{}
	cfg.Now = src.Now
	if *opts.Mic {
		log.Warnf("-mic is ignored when recording")
	}
	d, err := demo.New(kind, cfg)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}

	enc, err := encoder.New(encoder.Config{
		Width:        cfg.Width,
		Height:       cfg.Height,
		FPS:          *opts.FPS,
		OutputFile:   *opts.OutputFile,
		FFMPEGPath:   *opts.FFMPEGPath,
		Codec:        *opts.Codec,
		FlipVertical: true,
	}, encoder.WithLogger(log))
	if err != nil {
		log.Errorf("Failed to start encoder: %v", err)
		return 1
	}

	loop := frame.NewLoop(d.State, r, nil, frame.WithLogger(log))
	n, err := record.Run(loop, src, r, enc, record.Settings{Duration: *opts.Duration, FPS: *opts.FPS}, log)
	closeErr := enc.Close()
	if err != nil {
		log.Errorf("Offscreen rendering failed: %v", err)
		return 1
	}
	if closeErr != nil {
		log.Errorf("Encoding failed: %v", closeErr)
		return 1
	}
	log.Infof("Successfully rendered %d frames to %s", n, *opts.OutputFile)
	return 0
}
