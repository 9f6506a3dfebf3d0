package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/T-Dawg138/rg3d/assets"
	"github.com/T-Dawg138/rg3d/config"
	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
	"github.com/T-Dawg138/rg3d/renderer"
	"github.com/T-Dawg138/rg3d/scene"
)

func main() {
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load("rg3d.toml")
	if err != nil {
		core.Logger().Error("config", "err", err)
		os.Exit(1)
	}

	window, err := core.NewWindow(core.WindowConfig{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		Resizable:  true,
		VSync:      cfg.Window.VSync,
		Fullscreen: cfg.Window.Fullscreen,
	})
	if err != nil {
		core.Logger().Error("window", "err", err)
		os.Exit(1)
	}
	defer window.Destroy()

	engine, err := renderer.New(window, cfg)
	if err != nil {
		core.Logger().Error("renderer", "err", err)
		os.Exit(1)
	}
	defer engine.Destroy()

	loader := assets.NewLoader(4)
	defer loader.Close()
	watcher, err := assets.NewWatcher(loader)
	if err != nil {
		core.Logger().Warn("asset watcher unavailable", "err", err)
	} else {
		defer watcher.Close()
	}

	world, orbit := buildScene(loader, watcher, float32(cfg.Window.Width)/float32(cfg.Window.Height))
	engine.SetScene(world)

	window.SetResizeCallback(func(w, h int) {
		if err := engine.Resize(w, h); err != nil {
			core.Logger().Error("resize", "err", err)
		}
	})

	last := time.Now()
	statTick := time.Now()
	for !window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		window.PollEvents()
		if window.IsKeyPressed(core.KeyEscape) {
			break
		}

		loader.Poll(engine.InvalidateTexture)

		orbit.Orbit(dt*0.2, 0)
		world.Update(dt)

		if err := engine.RenderFrame(); err != nil {
			core.Logger().Error("render", "err", err)
			break
		}
		engine.Present()

		if time.Since(statTick) > time.Second {
			s := engine.Stats()
			window.SetTitle(fmt.Sprintf("%s | %d objects, %d tris, %d lights",
				cfg.Window.Title, s.Objects, s.Triangles, s.Lights))
			statTick = time.Now()
		}
	}
}

func buildScene(loader *assets.Loader, watcher *assets.Watcher, aspect float32) (*scene.Scene, *scene.OrbitCamera) {
	world := scene.NewScene()
	world.Ambient = core.Color{R: 0.25, G: 0.25, B: 0.3, A: 1}

	orbit := scene.NewOrbitCamera(math.NewVec3(0, 1, 0), 12, 1.0472, aspect)
	world.SetCamera(&orbit.Camera)

	// Floor with parallax bricks. The height map drives the UV march in the
	// geometry pass.
	floorMat := scene.NewMaterial("bricks", core.ColorWhite)
	floorMat.Diffuse = requestTracked(loader, watcher, "assets/bricks_diffuse.png", true)
	floorMat.Normal = requestTracked(loader, watcher, "assets/bricks_normal.png", false)
	floorMat.Height = requestTracked(loader, watcher, "assets/bricks_height.png", false)
	floorMat.ParallaxEnabled = true

	floor := scene.NewNode("floor")
	floor.Mesh = scene.CreatePlane(20, 20, 4)
	floor.Mesh.Material = floorMat
	world.AddNode(floor)

	// Reflective sphere in the middle.
	mirrorMat := scene.NewMaterial("mirror", core.ColorWhite)
	mirrorMat.Environment = scene.NewSolidCube("sky", 60, 80, 120, 255)
	mirrorMat.Roughness = 0.85

	ball := scene.NewNode("ball")
	ball.Mesh = scene.CreateSphere(1, 32, 16)
	ball.Mesh.Material = mirrorMat
	ball.SetPosition(math.NewVec3(0, 1.2, 0))
	world.AddNode(ball)

	// Cutout foliage card: texels under the alpha cutoff leave no trace in
	// any G-buffer target.
	leafMat := scene.NewMaterial("leaves", core.ColorWhite)
	leafMat.Diffuse = requestTracked(loader, watcher, "assets/leaves.png", true)

	leaf := scene.NewNode("leaf")
	leaf.Mesh = scene.CreateQuad()
	leaf.Mesh.Material = leafMat
	leaf.SetPosition(math.NewVec3(-3, 1, 2))
	leaf.SetScale(math.NewVec3(2, 2, 1))
	world.AddNode(leaf)

	// Tinted cubes sharing one mesh; the per-node tint multiplies the
	// material tint at draw time.
	cube := scene.CreateCube(1)
	for i, tint := range []core.Color{
		{R: 1, G: 0.4, B: 0.4, A: 1},
		{R: 0.4, G: 1, B: 0.4, A: 1},
		{R: 0.4, G: 0.4, B: 1, A: 1},
	} {
		n := scene.NewNode(fmt.Sprintf("cube%d", i))
		n.Mesh = cube
		n.Tint = tint
		n.SetPosition(math.NewVec3(float32(i*3-3), 0.5, -4))
		world.AddNode(n)
	}

	// One of each light type.
	sun := scene.NewDirectionalLight(math.NewVec3(0.4, -1, -0.3), core.Color{R: 1, G: 0.96, B: 0.9, A: 1}, 0.9)
	sun.CastShadows = true
	world.AddLight(sun)

	world.AddLight(scene.NewPointLight(
		math.NewVec3(3, 2, 3), core.Color{R: 1, G: 0.5, B: 0.2, A: 1}, 2, 8))

	world.AddLight(scene.NewSpotLight(
		math.NewVec3(-4, 5, 0), math.NewVec3(0.6, -1, 0),
		core.Color{R: 0.3, G: 0.6, B: 1, A: 1}, 3, 15, 0.3, 0.5))

	return world, orbit
}

// requestTracked starts an async texture load and registers it for hot
// reload when the watcher is available.
func requestTracked(loader *assets.Loader, watcher *assets.Watcher, path string, srgb bool) *scene.Texture {
	tex := loader.RequestTexture(path, srgb)
	if watcher != nil {
		if err := watcher.Track(path, tex); err != nil {
			core.Logger().Warn("cannot watch texture", "texture", path, "err", err)
		}
	}
	return tex
}
