package render

import (
	"errors"
	"fmt"
	"strings"
)

// Usage errors.
var (
	ErrNilDriver          = errors.New("render: nil driver")
	ErrInvalidAttribute   = errors.New("invalid vertex attribute")
	ErrNoAttributes       = errors.New("mesh has no vertex attributes")
	ErrMeshInitialized    = errors.New("mesh already initialized, use Replace to rebuild it")
	ErrMeshNotInitialized = errors.New("mesh not initialized")
	ErrNoInstances        = errors.New("no instance data")
	ErrNoStages           = errors.New("program has no shader stages")
	ErrProgramBuilt       = errors.New("program already built, use Rebuild to replace it")
	ErrProgramNotBuilt    = errors.New("program not built")
)

// CompileError is returned when a shader stage fails to compile.
// Log is the driver's diagnostic output, unmodified.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, strings.TrimRight(e.Log, "\x00\n"))
}

// LinkError is returned when a program fails to link.
// Log is the driver's diagnostic output, unmodified.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "shader program linking failed: " + strings.TrimRight(e.Log, "\x00\n")
}

// InstanceShapeError reports an instance whose values do not match the
// shape of the first instance.
type InstanceShapeError struct {
	Instance int    // Index of the offending instance
	Index    int    // Index of the offending value, or -1 for a length mismatch
	Want     string // Expected variant (or value count)
	Got      string
}

func (e *InstanceShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("instance %d: has %s values, first instance has %s", e.Instance, e.Got, e.Want)
	}
	if e.Instance == 0 {
		return fmt.Sprintf("instance 0 value %d: got %s, want %s", e.Index, e.Got, e.Want)
	}
	return fmt.Sprintf("instance %d value %d: got %s, first instance has %s", e.Instance, e.Index, e.Got, e.Want)
}

// ContextError is returned by a Platform when the driver rejects the
// requested graphics context. A Window treats it as fatal.
type ContextError struct {
	Major, Minor int
	Err          error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("failed to create OpenGL context: driver rejected OpenGL version %d.%d: %v\n"+
		"Your video card might be too old to support this version.\n"+
		"Please update your graphics driver.", e.Major, e.Minor, e.Err)
}

func (e *ContextError) Unwrap() error { return e.Err }
