package render

import (
	"fmt"
	"os"
)

// ShaderFile names the file holding one shader stage's source.
type ShaderFile struct {
	Stage ShaderStage
	Path  string
}

// ReadShaderFiles reads the source of every file. Sources are passed to
// the driver as-is; no preprocessing is done.
func ReadShaderFiles(files ...ShaderFile) ([]ShaderSource, error) {
	sources := make([]ShaderSource, 0, len(files))
	for _, f := range files {
		b, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s shader %q: %w", f.Stage, f.Path, err)
		}
		sources = append(sources, ShaderSource{Stage: f.Stage, Source: string(b)})
	}
	return sources, nil
}

// LoadProgram reads the given shader files and builds a program from them.
func LoadProgram(d Driver, files ...ShaderFile) (*Program, error) {
	sources, err := ReadShaderFiles(files...)
	if err != nil {
		return nil, err
	}
	return BuildProgram(d, sources...)
}

// LoadProgramFiles builds a vertex+fragment program from two files.
func LoadProgramFiles(d Driver, vertexPath, fragmentPath string) (*Program, error) {
	return LoadProgram(d,
		ShaderFile{Stage: VertexStage, Path: vertexPath},
		ShaderFile{Stage: FragmentStage, Path: fragmentPath},
	)
}

// LoadGeometryProgramFiles builds a vertex+geometry+fragment program.
func LoadGeometryProgramFiles(d Driver, vertexPath, geometryPath, fragmentPath string) (*Program, error) {
	return LoadProgram(d,
		ShaderFile{Stage: VertexStage, Path: vertexPath},
		ShaderFile{Stage: GeometryStage, Path: geometryPath},
		ShaderFile{Stage: FragmentStage, Path: fragmentPath},
	)
}

// LoadComputeProgramFile builds a compute program from a single file.
func LoadComputeProgramFile(d Driver, computePath string) (*Program, error) {
	return LoadProgram(d, ShaderFile{Stage: ComputeStage, Path: computePath})
}
