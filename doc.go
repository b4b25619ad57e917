/*
Package render is a minimal OpenGL rendering runtime. It owns GPU buffers,
shader programs and the per-frame redraw loop of a single window, and
translates typed vertex, instance and uniform data into buffer layouts,
attribute bindings and draw calls.

The package itself is pure Go. Graphics calls go through the [Driver]
interface and windowing through [Platform]; backend/opengl implements both
on go-gl and GLFW.

# Quick Start

	cfg := render.DefaultConfig()
	cfg.Window.Title = "triangle"
	cfg.Window.Framerate = 60

	mesh := render.NewMesh()
	program := render.NewProgram()

	w := render.NewWindow(opengl.NewGLFW(), cfg)
	w.SetFrameFunc(func(f *render.Frame) {
	    if f.JustInitialized() {
	        // The context is live from the first frame on.
	        _ = mesh.Init(f.Driver(), render.MeshConfig{
	            Vertices:   []float32{-0.5, -0.5, 0.5, -0.5, 0, 0.5},
	            Attributes: []render.AttributeLayout{render.Attribute(0, 2, 2, 0)},
	        })
	        p, err := render.LoadProgramFiles(f.Driver(), "tri.vert", "tri.frag")
	        if err != nil {
	            log.Print(err)
	            f.RequestClose()
	            return
	        }
	        program = p
	        return
	    }
	    f.Clear(mgl32.Vec4{0, 0, 0, 1})
	    program.Bind()
	    program.SetUniform("time", render.Float(float32(f.FrameCount())/60))
	    mesh.Draw()
	})
	w.SetCloseFunc(func(*render.Frame) {
	    mesh.Delete()
	    program.Delete()
	})
	if err := w.Run(); err != nil {
	    log.Fatal(err)
	}

# Meshes

A [Mesh] is created empty and initialized once with [Mesh.Init]. Vertex
attributes are given as [AttributeLayout] values in float components; the
largest stride is the real vertex stride and determines the vertex count.

Per-instance data is given as rows of [Value]s, one row per instance:

	rows := [][]render.Value{
	    {render.Vec3{0, 0, 0}, render.Mat4(mgl32.Ident4()), render.Float(0.5)},
	    {render.Vec3{1, 0, 0}, render.Mat4(mgl32.Translate3D(1, 0, 0)), render.Float(1)},
	}
	err := mesh.SetInstanceData(rows, 1)

The layout is derived from the first row: the Vec3 takes slot 1, the Mat4
slots 2-5 (one per column) and the Float slot 6, with a packed stride of
20 floats. [Mesh.Draw] then picks one of the four draw calls from whether
the mesh is indexed and whether it has instances.

# Programs

[Program] compiles and links any combination of stages and caches uniform
locations by name, including misses, so each name costs at most one driver
query per program. Setting a uniform the program does not have is a no-op.
[ProgramWatcher] rebuilds a program when its source files change.

# Frame loop

[Window] creates the native window on the first Resumed event, then for
every redraw: paces the frame when a framerate is configured, calls the
[FrameFunc], presents, counts the frame and requests the next redraw.
[Frame.JustInitialized] is true on the first frame only, so one function
can serve as both setup and render code.

# Logging

The package logs through log/slog. Debug output is off by default; call
[SetVerbose] or [SetLogger] to change that.
*/
package render
