// Command gen renders one sample mesh per primitive topology in a hidden
// window, captures the framebuffer and saves JPEG screenshots to doc/imgs/.
//
// Usage:
//
//	devbox shell
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/render"
	"github.com/go-theft-auto/render/backend/opengl"
)

const (
	shotWidth  = 320
	shotHeight = 240
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// screenshot defines a single topology sample to capture.
type screenshot struct {
	name     string          // filename without extension
	topology render.Topology // primitive assembly
	vertices []float32       // xyz rgb per vertex
	indices  []uint32        // nil = draw in order
	mesh     *render.Mesh
}

func run() error {
	outDir := filepath.Join("doc", "imgs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	cfg := render.DefaultConfig()
	cfg.Window.Title = "screenshot-gen"
	cfg.Window.Size = render.Size{Width: shotWidth, Height: shotHeight}

	shots := buildScreenshots()
	program := render.NewProgram()
	var genErr error

	w := render.NewWindow(opengl.NewGLFW(opengl.WithHiddenWindow()), cfg)
	w.SetFrameFunc(func(f *render.Frame) {
		if f.JustInitialized() {
			p, err := setup(f.Driver(), shots)
			if err != nil {
				genErr = err
				f.RequestClose()
				return
			}
			program = p
			return
		}

		i := int(f.FrameCount()) - 1
		if i >= len(shots) {
			f.RequestClose()
			return
		}
		s := shots[i]
		if genErr = capture(f, program, s, outDir); genErr != nil {
			f.RequestClose()
			return
		}
		fmt.Printf("  %s.jpg (%dx%d)\n", s.name, shotWidth, shotHeight)
	})
	w.SetCloseFunc(func(*render.Frame) {
		for _, s := range shots {
			if s.mesh != nil {
				s.mesh.Delete()
			}
		}
		program.Delete()
	})

	if err := w.Run(); err != nil {
		return err
	}
	if genErr != nil {
		return genErr
	}
	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(shots), outDir)
	return nil
}

// setup builds the color program and every sample mesh.
func setup(d render.Driver, shots []screenshot) (*render.Program, error) {
	p, err := render.LoadProgramFiles(d,
		filepath.Join("example", "assets", "color.vert"),
		filepath.Join("example", "assets", "color.frag"))
	if err != nil {
		return nil, err
	}

	for i := range shots {
		s := &shots[i]
		s.mesh = render.NewMesh()
		err := s.mesh.Init(d, render.MeshConfig{
			Vertices: s.vertices,
			Indices:  s.indices,
			Attributes: []render.AttributeLayout{
				render.Attribute(0, 3, 6, 0),
				render.Attribute(1, 3, 6, 3),
			},
			Topology: s.topology,
		})
		if err != nil {
			p.Delete()
			return nil, fmt.Errorf("mesh %s: %w", s.name, err)
		}
	}
	return p, nil
}

func capture(f *render.Frame, program *render.Program, s screenshot, outDir string) error {
	f.SetViewport(shotWidth, shotHeight)
	f.Clear(mgl32.Vec4{0.12, 0.12, 0.14, 1.0})

	program.Bind()
	program.SetUniform("transform", render.Mat4(mgl32.Ident4()))
	s.mesh.Draw()

	// Read the back buffer before the window presents it.
	pixels := make([]byte, shotWidth*shotHeight*4)
	gl.ReadPixels(0, 0, shotWidth, shotHeight, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	// Flip vertically (OpenGL origin is bottom-left)
	rowLen := shotWidth * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < shotHeight/2; y++ {
		top := y * rowLen
		bot := (shotHeight - 1 - y) * rowLen
		copy(tmp, pixels[top:top+rowLen])
		copy(pixels[top:top+rowLen], pixels[bot:bot+rowLen])
		copy(pixels[bot:bot+rowLen], tmp)
	}

	img := image.NewRGBA(image.Rect(0, 0, shotWidth, shotHeight))
	copy(img.Pix, pixels)

	path := filepath.Join(outDir, s.name+".jpg")
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return jpeg.Encode(out, img, &jpeg.Options{Quality: 90})
}

// ring returns n colored vertices on a circle of radius r.
func ring(n int, r float32) []float32 {
	v := make([]float32, 0, n*6)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x, y := float32(math.Cos(a))*r, float32(math.Sin(a))*r
		v = append(v, x, y, 0, 0.5+x, 0.5+y, 0.8)
	}
	return v
}

// buildScreenshots returns one sample per topology.
func buildScreenshots() []screenshot {
	quad := []float32{
		-0.6, -0.6, 0, 1, 0, 0,
		0.6, -0.6, 0, 0, 1, 0,
		0.6, 0.6, 0, 0, 0, 1,
		-0.6, 0.6, 0, 1, 1, 0,
	}
	strip := []float32{
		-0.8, -0.4, 0, 1, 0, 0,
		-0.8, 0.4, 0, 0, 1, 0,
		-0.3, -0.4, 0, 0, 0, 1,
		-0.3, 0.4, 0, 1, 1, 0,
		0.2, -0.4, 0, 1, 0, 1,
		0.2, 0.4, 0, 0, 1, 1,
		0.7, -0.4, 0, 1, 1, 1,
		0.7, 0.4, 0, 1, 0.5, 0,
	}
	fan := append([]float32{0, 0, 0, 1, 1, 1}, ring(9, 0.7)...)

	return []screenshot{
		{name: "triangles", topology: render.Triangles, vertices: quad, indices: []uint32{0, 1, 2, 2, 3, 0}},
		{name: "triangle_strip", topology: render.TriangleStrip, vertices: strip},
		{name: "triangle_fan", topology: render.TriangleFan, vertices: fan},
		{name: "points", topology: render.Points, vertices: ring(16, 0.7)},
		{name: "lines", topology: render.Lines, vertices: ring(12, 0.7)},
		{name: "line_strip", topology: render.LineStrip, vertices: strip},
		{name: "line_loop", topology: render.LineLoop, vertices: ring(7, 0.7)},
	}
}
