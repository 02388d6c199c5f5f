package shader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	"golang.org/x/sync/errgroup"
)

// LoadError reports a shader resource that could not be fetched. Status is the
// HTTP status code for URLs that answered, zero otherwise.
type LoadError struct {
	Path   string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("error fetching GLSL file from path %s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("error fetching GLSL file from path %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads shader code from disk or over http(s).
type Loader struct {
	Client *http.Client
	Log    logging.Logger
}

var DefaultLoader = &Loader{Client: http.DefaultClient}

// Fetch starts loading both shaders with the default loader.
func Fetch(ctx context.Context, vertexPath, fragmentPath string) *Pending {
	return DefaultLoader.Fetch(ctx, vertexPath, fragmentPath)
}

// Pending is an in-flight pair of shader fetches.
type Pending struct {
	g   *errgroup.Group
	src Source
}

// Fetch loads both shaders concurrently and returns immediately. The caller
// keeps working, typically creating the window, and joins with Wait.
func (l *Loader) Fetch(ctx context.Context, vertexPath, fragmentPath string) *Pending {
	g, ctx := errgroup.WithContext(ctx)
	p := &Pending{g: g}
	g.Go(func() error {
		code, err := l.Load(ctx, vertexPath)
		p.src.Vertex = code
		return err
	})
	g.Go(func() error {
		code, err := l.Load(ctx, fragmentPath)
		p.src.Fragment = code
		return err
	})
	return p
}

// Wait blocks until both fetches finish and returns the first failure.
func (p *Pending) Wait() (Source, error) {
	if err := p.g.Wait(); err != nil {
		return Source{}, err
	}
	return p.src, nil
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Load reads a single shader. Failures are always *LoadError.
func (l *Loader) Load(ctx context.Context, path string) (string, error) {
	log := logging.OrNop(l.Log)
	if !isURL(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", &LoadError{Path: path, Err: err}
		}
		log.Debugf("loaded %s (%d bytes)", path, len(data))
		return string(data), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", &LoadError{Path: path, Err: err}
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", &LoadError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &LoadError{
			Path:   path,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("bad response status: %s", resp.Status),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &LoadError{Path: path, Status: resp.StatusCode, Err: err}
	}
	log.Debugf("fetched %s (%d bytes)", path, len(body))
	return string(body), nil
}
