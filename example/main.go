// Example renders a field of instanced grass blades: one five-vertex blade
// mesh drawn once per instance, each instance carrying its own model matrix
// and color.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
//
// Flags:
//
//	-config example/assets/window.yaml   load window settings from YAML or TOML
//	-watch                               rebuild the grass shaders when the files change
//	-v                                   debug logging
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/render"
	"github.com/go-theft-auto/render/backend/opengl"
)

const fieldSize = 128 // blades per side, halved around the origin

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "window config file (.yaml or .toml)")
	assets := flag.String("assets", filepath.Join("example", "assets"), "shader directory")
	watch := flag.Bool("watch", false, "reload shaders on change")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	render.SetVerbose(*verbose)

	cfg := render.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = render.LoadConfig(*configPath); err != nil {
			return err
		}
	} else {
		cfg.Window.Title = "Instanced Grass"
		cfg.Window.VSync = true
		cfg.Window.Framerate = 60
	}

	files := []render.ShaderFile{
		{Stage: render.VertexStage, Path: filepath.Join(*assets, "grass.vert")},
		{Stage: render.FragmentStage, Path: filepath.Join(*assets, "grass.frag")},
	}

	var watcher *render.ProgramWatcher
	if *watch {
		var err error
		if watcher, err = render.WatchProgram(files...); err != nil {
			return err
		}
		defer watcher.Close()
	}

	mesh := render.NewMesh()
	program := render.NewProgram()
	var setupErr error

	w := render.NewWindow(opengl.NewGLFW(opengl.WithEscapeToClose()), cfg)
	w.SetFrameFunc(func(f *render.Frame) {
		if f.JustInitialized() {
			if setupErr = setup(f.Driver(), mesh); setupErr != nil {
				return
			}
			var p *render.Program
			if p, setupErr = render.LoadProgram(f.Driver(), files...); setupErr == nil {
				program = p
			}
			return
		}
		if setupErr != nil {
			f.RequestClose()
			return
		}
		if watcher != nil {
			if _, err := watcher.Reload(f.Driver(), program); err != nil {
				render.Logger().Warn("shader reload failed, keeping previous program", "err", err)
			}
		}
		draw(f, mesh, program)
	})
	w.SetCloseFunc(func(*render.Frame) {
		mesh.Delete()
		program.Delete()
	})

	if err := w.Run(); err != nil {
		return err
	}
	return setupErr
}

// setup builds the blade mesh and one instance per grid cell.
func setup(d render.Driver, mesh *render.Mesh) error {
	err := mesh.Init(d, render.MeshConfig{
		Vertices: []float32{
			0.0, 4.0, 0.0,
			-0.2, 2.0, 0.0,
			0.2, 2.0, 0.0,
			0.3, 0.0, 0.0,
			-0.3, 0.0, 0.0,
		},
		Indices:    []uint32{0, 1, 2, 2, 3, 4, 1, 2, 4},
		Attributes: []render.AttributeLayout{render.Attribute(0, 3, 3, 0)},
	})
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(1, 2))
	instances := make([][]render.Value, 0, fieldSize*fieldSize)
	for x := -fieldSize / 2; x < fieldSize/2; x++ {
		for z := -fieldSize / 2; z < fieldSize/2; z++ {
			fx, fz := float32(x), float32(z)
			h := terrain(fx, fz)
			model := mgl32.Translate3D(fx*0.5, h, fz*0.5).
				Mul4(mgl32.Translate3D(rng.Float32()-0.5, rng.Float32()*0.2-0.1, rng.Float32()-0.5)).
				Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rng.Float32()*90 - 45)))
			shade := float32(math.Sin(float64(fx*0.07))*math.Cos(float64(fz*0.05))) * 0.5
			instances = append(instances, []render.Value{
				render.Mat4(model),
				render.Vec3{0.5 - shade*0.5, 0.5 + shade*0.5, 0.1},
			})
		}
	}
	return mesh.SetInstanceData(instances, 1)
}

// terrain is a cheap rolling height field.
func terrain(x, z float32) float32 {
	return float32(math.Sin(float64(x)*0.05)*math.Cos(float64(z)*0.04))*6 +
		float32(math.Sin(float64(x+z)*0.3))*0.5
}

func draw(f *render.Frame, mesh *render.Mesh, program *render.Program) {
	width, height := f.Size()
	if width == 0 || height == 0 {
		return
	}
	f.Clear(mgl32.Vec4{0, 0, 0, 1})
	f.SetViewport(width, height)

	frames := float32(f.FrameCount())
	angle := frames * 0.001
	radius := 32 + float32(math.Sin(float64(frames*0.005)))*16
	eye := mgl32.Vec3{
		radius * float32(math.Cos(float64(angle))),
		15,
		radius * float32(math.Sin(float64(angle))),
	}

	projection := mgl32.Perspective(mgl32.DegToRad(45), float32(width)/float32(height), 0.1, 10000)
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	model := mgl32.Scale3D(0.3, 0.3, 0.3)

	program.Bind()
	program.SetUniform("transform", render.Mat4(projection.Mul4(view).Mul4(model)))
	program.SetUniform("time", render.Float(frames*0.016))
	mesh.Draw()
}
