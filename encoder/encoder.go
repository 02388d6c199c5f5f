// Package encoder pipes raw RGBA frames into an ffmpeg process.
package encoder

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const DefaultCodec = "libx264"

// numBuffers is how many frames may be queued ahead of ffmpeg.
const numBuffers = 4

var ErrClosed = errors.New("encoder closed")

type Config struct {
	Width, Height int
	FPS           int
	OutputFile    string
	FFMPEGPath    string
	Codec         string
	// FlipVertical corrects bottom-up OpenGL readback.
	FlipVertical bool
}

// Frame is one tightly packed RGBA image.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// runner consumes the raw stream until EOF. The default starts ffmpeg.
type runner func(cfg Config, stream io.Reader) error

// FFmpegEncoder accepts frames from the render thread and writes them to ffmpeg
// from a separate goroutine.
type FFmpegEncoder struct {
	cfg       Config
	frameSize int
	frames    chan *Frame
	done      chan error
	log       logging.Logger
	closed    bool
	err       error
}

type Option func(*FFmpegEncoder)

func WithLogger(log logging.Logger) Option {
	return func(e *FFmpegEncoder) { e.log = log }
}

func New(cfg Config, options ...Option) (*FFmpegEncoder, error) {
	return start(cfg, runFFmpeg, options...)
}

func start(cfg Config, run runner, options ...Option) (*FFmpegEncoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", cfg.FPS)
	}
	if cfg.OutputFile == "" {
		return nil, errors.New("no output file")
	}
	if cfg.Codec == "" {
		cfg.Codec = DefaultCodec
	}

	e := &FFmpegEncoder{
		cfg:       cfg,
		frameSize: cfg.Width * cfg.Height * 4,
		frames:    make(chan *Frame, numBuffers),
		done:      make(chan error, 1),
	}
	for _, option := range options {
		option(e)
	}
	e.log = logging.OrNop(e.log)

	pipeReader, pipeWriter := io.Pipe()
	errc := make(chan error, 1)
	go func() {
		err := run(cfg, pipeReader)
		// unblock the writer if ffmpeg quits early
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()
	go e.consume(pipeWriter, errc)
	return e, nil
}

// Args returns the ffmpeg input and output arguments for cfg.
func Args(cfg Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"framerate": strconv.Itoa(cfg.FPS),
	}
	codec := cfg.Codec
	if codec == "" {
		codec = DefaultCodec
	}
	outputArgs = ffmpeg.KwArgs{
		"c:v":     codec,
		"pix_fmt": "yuv420p",
	}
	if cfg.FlipVertical {
		outputArgs["vf"] = "vflip"
	}
	return
}

func runFFmpeg(cfg Config, stream io.Reader) error {
	inputArgs, outputArgs := Args(cfg)
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.OutputFile, outputArgs).
		OverWriteOutput().WithInput(stream).ErrorToStdOut()
	if cfg.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(cfg.FFMPEGPath)
	}
	return cmd.Run()
}

func (e *FFmpegEncoder) consume(w *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for frame := range e.frames {
		if writeErr != nil {
			continue // drain so senders never block
		}
		if _, err := w.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("write frame %d: %w", frame.PTS, err)
			e.log.Errorf("%v", writeErr)
		}
	}
	w.Close()
	runErr := <-errc
	if runErr != nil {
		e.done <- fmt.Errorf("ffmpeg: %w", runErr)
		return
	}
	e.done <- writeErr
}

// SendVideo queues a frame. Frames must be exactly width*height*4 bytes.
func (e *FFmpegEncoder) SendVideo(frame *Frame) error {
	if e.closed {
		return ErrClosed
	}
	if len(frame.Pixels) != e.frameSize {
		return fmt.Errorf("frame %d: got %d bytes, want %d", frame.PTS, len(frame.Pixels), e.frameSize)
	}
	e.frames <- frame
	return nil
}

// Close flushes the queue, waits for ffmpeg to exit and returns its error.
func (e *FFmpegEncoder) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	close(e.frames)
	e.err = <-e.done
	return e.err
}
