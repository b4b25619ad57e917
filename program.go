package render

import "fmt"

// ShaderSource is the source text of one shader stage.
type ShaderSource struct {
	Stage  ShaderStage
	Source string
}

// Program owns a linked shader program and caches its uniform locations.
type Program struct {
	driver   Driver
	id       uint32
	uniforms map[string]int32
}

// NewProgram returns an empty program. It makes no driver calls.
// An empty program must be built before it is bound.
func NewProgram() *Program {
	return &Program{uniforms: make(map[string]int32)}
}

// BuildProgram compiles and links stages into a new program.
func BuildProgram(d Driver, stages ...ShaderSource) (*Program, error) {
	p := NewProgram()
	if err := p.Build(d, stages...); err != nil {
		return nil, err
	}
	return p, nil
}

// Built reports whether the program holds a linked program object.
func (p *Program) Built() bool { return p.id != 0 }

// ID returns the driver handle of the program, 0 if empty.
func (p *Program) ID() uint32 { return p.id }

// Build compiles every stage, links them into a program and stores it in p.
// Compile and link failures return a *CompileError or *LinkError carrying
// the driver log; in that case no driver objects are left behind.
func (p *Program) Build(d Driver, stages ...ShaderSource) error {
	if p.Built() {
		return ErrProgramBuilt
	}
	id, err := link(d, stages)
	if err != nil {
		return err
	}
	p.driver = d
	p.id = id
	if p.uniforms == nil {
		p.uniforms = make(map[string]int32)
	}
	Logger().Debug("program built", "program", id, "stages", len(stages))
	return nil
}

// Rebuild compiles and links stages and, on success, swaps the result in
// for the current program, deleting the old one and forgetting cached
// uniform locations. On failure p is left unchanged.
func (p *Program) Rebuild(d Driver, stages ...ShaderSource) error {
	id, err := link(d, stages)
	if err != nil {
		return err
	}
	p.Delete()
	p.driver = d
	p.id = id
	if p.uniforms == nil {
		p.uniforms = make(map[string]int32)
	}
	Logger().Debug("program rebuilt", "program", id, "stages", len(stages))
	return nil
}

// link creates and links a program object from stages. Stage objects are
// always released; the program object is released on failure.
func link(d Driver, stages []ShaderSource) (uint32, error) {
	if d == nil {
		return 0, ErrNilDriver
	}
	if len(stages) == 0 {
		return 0, ErrNoStages
	}

	program := d.CreateProgram()
	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, s := range shaders {
			d.DeleteShader(s)
		}
	}()

	for _, st := range stages {
		shader := d.CreateShader(st.Stage)
		shaders = append(shaders, shader)
		if log, ok := d.CompileShader(shader, st.Source); !ok {
			d.DeleteProgram(program)
			return 0, &CompileError{Stage: st.Stage, Log: log}
		}
		d.AttachShader(program, shader)
	}

	if log, ok := d.LinkProgram(program); !ok {
		d.DeleteProgram(program)
		return 0, &LinkError{Log: log}
	}
	return program, nil
}

// Bind makes the program current for subsequent draws.
// Binding an empty program is a programming error and panics.
func (p *Program) Bind() {
	if !p.Built() {
		panic(fmt.Errorf("render: bind: %w", ErrProgramNotBuilt))
	}
	p.driver.UseProgram(p.id)
}

// UniformLocation returns the location of the named uniform, -1 if the
// program has no such uniform. Each name is queried from the driver at
// most once; misses are cached too.
func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	if !p.Built() {
		return -1
	}
	loc := p.driver.GetUniformLocation(p.id, name)
	p.uniforms[name] = loc
	return loc
}

// SetUniform uploads v to the named uniform of the bound program.
// Uniforms the program does not have are ignored: shaders may legally
// drop unused uniforms. A nil v is ignored too.
func (p *Program) SetUniform(name string, v Value) {
	if v == nil {
		Logger().Debug("ignoring nil uniform value", "uniform", name)
		return
	}
	loc := p.UniformLocation(name)
	if loc == -1 {
		return
	}
	v.upload(p.driver, loc)
}

// Delete releases the program. It is safe to call on an empty program and
// to call more than once.
func (p *Program) Delete() {
	if p.id != 0 {
		p.driver.DeleteProgram(p.id)
		p.id = 0
	}
	clear(p.uniforms)
}
