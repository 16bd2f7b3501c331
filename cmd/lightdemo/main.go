// Command lightdemo runs a windowed demonstration of the lighting core:
// a handful of spinning convex casters, a point light that follows the
// mouse, and the bloom composite.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pelletier/go-toml/v2"

	lightning "github.com/zpconn/Dynamic2DLightning"
	"github.com/zpconn/Dynamic2DLightning/light"
	"github.com/zpconn/Dynamic2DLightning/mesh"
	"github.com/zpconn/Dynamic2DLightning/postfx"
	"github.com/zpconn/Dynamic2DLightning/render"
	"github.com/zpconn/Dynamic2DLightning/scene"
	"github.com/zpconn/Dynamic2DLightning/shadow"
)

// settings is the optional TOML demo configuration. Any field left out
// keeps its default.
type settings struct {
	Width          int     `toml:"Width"`
	Height         int     `toml:"Height"`
	LightRange     float32 `toml:"LightRange"`
	LightIntensity float32 `toml:"LightIntensity"`
	BloomRadius    float64 `toml:"BloomRadius"`
	BloomScale     float32 `toml:"BloomScale"`
	BloomThreshold float32 `toml:"BloomThreshold"`
}

func defaultSettings() settings {
	b := postfx.NewBloom()
	return settings{
		Width:          800,
		Height:         600,
		LightRange:     350,
		LightIntensity: 0.9,
		BloomRadius:    b.BlurRadius,
		BloomScale:     b.Scale,
		BloomThreshold: b.Threshold,
	}
}

func loadSettings(path string) settings {
	s := defaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		log.Printf("settings %s: %v (using defaults)", path, err)
		return defaultSettings()
	}
	return s
}

// game drives the lighting scene from the ebiten frame loop.
type game struct {
	width, height int
	sc            *scene.Scene
	frame         *lightning.Pixmap
	angle         float32
}

func (g *game) Update() error {
	mx, my := ebiten.CursorPosition()
	// Pixel coordinates to the scene's centered, y-up world.
	g.sc.Light().SetPosition(lightning.V2(
		float32(mx)-float32(g.width)/2,
		float32(g.height)/2-float32(my),
	))

	g.angle += 0.01
	for i, c := range g.sc.Casters() {
		c.SetRotation(g.angle * float32(1+i%3))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if err := g.sc.RenderFrame(presenterFunc(func(frame *lightning.Pixmap) error {
		g.frame = frame
		return nil
	})); err != nil {
		log.Printf("frame: %v", err)
		return
	}
	if g.frame != nil {
		screen.WritePixels(g.frame.Data())
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// presenterFunc adapts a function to render.Presenter.
type presenterFunc func(*lightning.Pixmap) error

func (f presenterFunc) Present(frame *lightning.Pixmap) error { return f(frame) }

func main() {
	var (
		settingsPath = flag.String("settings", "settings.toml", "demo settings file")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		lightning.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	cfg := loadSettings(*settingsPath)

	device := render.NewSoftwareDevice()
	target := render.NewPixmapTarget(cfg.Width, cfg.Height)
	pipeline, err := render.New(device, target)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	lt, err := light.New(pipeline, lightning.V2(0, 0),
		cfg.LightRange, cfg.LightIntensity, lightning.RGB(1, 0.95, 0.8))
	if err != nil {
		log.Fatalf("light: %v", err)
	}

	bloom := postfx.Bloom{
		BlurRadius: cfg.BloomRadius,
		Scale:      cfg.BloomScale,
		Threshold:  cfg.BloomThreshold,
	}
	sc, err := scene.New(pipeline, lt, bloom)
	if err != nil {
		log.Fatalf("scene: %v", err)
	}

	if err := buildCasters(sc, pipeline); err != nil {
		log.Fatalf("casters: %v", err)
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Dynamic 2D Lightning")
	if err := ebiten.RunGame(&game{width: cfg.Width, height: cfg.Height, sc: sc}); err != nil {
		log.Fatal(err)
	}
}

// buildCasters places a few convex shapes around the scene.
func buildCasters(sc *scene.Scene, p *render.Pipeline) error {
	square := mesh.NewQuad(100, 100, 1, lightning.RGB(0.55, 0.3, 0.2))
	hexagon, err := mesh.NewCircle(6, 55, lightning.RGB(0.2, 0.45, 0.55), lightning.RGB(0.2, 0.45, 0.55))
	if err != nil {
		return err
	}
	triangle, err := mesh.NewCircle(3, 70, lightning.RGB(0.35, 0.5, 0.25), lightning.RGB(0.35, 0.5, 0.25))
	if err != nil {
		return err
	}

	positions := []lightning.Vec2{
		lightning.V2(-220, 120),
		lightning.V2(180, -90),
		lightning.V2(40, 170),
	}
	for i, m := range []*mesh.PolygonMesh{square, hexagon, triangle} {
		c, err := shadow.New(m, p)
		if err != nil {
			return err
		}
		c.SetPosition(positions[i])
		sc.AddCaster(c)
	}
	return nil
}
