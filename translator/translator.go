// Package translator converts WebGL2 shaders to desktop GLSL 4.10 through the
// ANGLE translator compiled to WebAssembly.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once    sync.Once
	shared  *gst.ShaderTranslator
	initErr error
)

// Get returns the process-wide translator, creating it on first use. The
// WebAssembly module is expensive to instantiate so it is never recreated,
// not even after a failure.
func Get(ctx context.Context) (*gst.ShaderTranslator, error) {
	once.Do(func() {
		shared, initErr = gst.NewShaderTranslator(ctx)
	})
	if initErr != nil {
		return nil, fmt.Errorf("shader translator: %w", initErr)
	}
	return shared, nil
}

// Program is a translated vertex/fragment pair.
type Program struct {
	Vertex   string
	Fragment string
	// Uniforms maps each uniform's source name to the name it has in the
	// translated code.
	Uniforms map[string]string
}

// Translate converts both stages. Uniforms declared in both stages must map to
// the same translated name.
func Translate(ctx context.Context, vertex, fragment string) (*Program, error) {
	t, err := Get(ctx)
	if err != nil {
		return nil, err
	}

	vs, err := t.TranslateShader(vertex, "vertex", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("vertex shader translation failed: %w", err)
	}
	fs, err := t.TranslateShader(fragment, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	uniforms := make(map[string]string, len(vs.Variables)+len(fs.Variables))
	if err := mergeNames(uniforms, mappedNames(vs.Variables)); err != nil {
		return nil, err
	}
	if err := mergeNames(uniforms, mappedNames(fs.Variables)); err != nil {
		return nil, err
	}
	return &Program{Vertex: vs.Code, Fragment: fs.Code, Uniforms: uniforms}, nil
}

func mappedNames(vars map[string]gst.ShaderVariable) map[string]string {
	names := make(map[string]string, len(vars))
	for name, v := range vars {
		names[name] = v.MappedName
	}
	return names
}

func mergeNames(dst, src map[string]string) error {
	for name, mapped := range src {
		if prev, ok := dst[name]; ok && prev != mapped {
			return fmt.Errorf("uniform %s translated as both %s and %s", name, prev, mapped)
		}
		dst[name] = mapped
	}
	return nil
}
