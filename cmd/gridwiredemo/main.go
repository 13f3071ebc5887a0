// Command gridwiredemo builds a small schematic scene, tessellates it and
// saves a software-rendered preview.
package main

import (
	"flag"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gridwire/gridwire"
	"github.com/gridwire/gridwire/render"
	"github.com/gridwire/gridwire/store"
	"github.com/gridwire/gridwire/tess"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "schematic.png", "output file")
		scale   = flag.Float64("scale", 4, "pixels per world unit")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		gridwire.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	s := store.New()
	buildScene(s)

	var buffers tess.VertexBuffers
	tess.Rebuild(s, float32(*scale), nil, &buffers)

	target := render.NewPixmapTarget(*width, *height)
	target.Clear(color.NRGBA{R: 24, G: 26, B: 32, A: 255})
	render.RasterizeTriangles(target, &buffers, render.View{
		OffsetX: 20,
		OffsetY: 20,
		Scale:   float32(*scale),
	})

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *output, err)
	}
	defer f.Close()
	if err := png.Encode(f, target.Image()); err != nil {
		log.Fatalf("Failed to encode PNG: %v", err)
	}

	st := s.Stats()
	log.Printf("Preview saved to %s (%dx%d, %d entities, %d vertices)\n",
		*output, *width, *height, st.Entities, buffers.TriangleVertexCount())
}

// buildScene assembles two symbols wired through anchored nodes, a power
// bus polyline and a few annotation shapes.
func buildScene(s *store.Store) {
	white := gridwire.RGBA{R: 0.9, G: 0.9, B: 0.9, A: 1}
	copper := gridwire.RGBA{R: 0.85, G: 0.55, B: 0.2, A: 1}
	green := gridwire.RGBA{R: 0.3, G: 0.8, B: 0.4, A: 1}

	// Board outline.
	s.UpsertRect(1, store.Rect{
		X: 0, Y: 0, W: 150, H: 100,
		Fill:     gridwire.RGBA{R: 0.1, G: 0.2, B: 0.14, A: 1},
		StrokeOn: true, Stroke: green, StrokeWidth: 2,
	})

	// Two component bodies with connection pins on facing edges. The
	// rects double as the symbol visuals (symbol geometry is external).
	s.UpsertSymbol(10, store.Symbol{
		Key: 1, X: 20, Y: 43, W: 20, H: 14,
		SX: 1, SY: 1, ConnX: 1, ConnY: 0.5,
	})
	s.UpsertSymbol(11, store.Symbol{
		Key: 2, X: 110, Y: 43, W: 20, H: 14,
		SX: 1, SY: 1, Rotation: math.Pi, ConnX: 1, ConnY: 0.5,
	})
	s.UpsertRect(12, store.Rect{X: 20, Y: 43, W: 20, H: 14, Fill: white})
	s.UpsertRect(13, store.Rect{X: 110, Y: 43, W: 20, H: 14, Fill: white})

	// Nodes riding the symbol pins, plus a free junction between them.
	s.UpsertNode(20, store.Node{Kind: store.NodeAnchored, Anchor: 10})
	s.UpsertNode(21, store.Node{Kind: store.NodeAnchored, Anchor: 11})
	s.UpsertNode(22, store.Node{Kind: store.NodeFree, Pos: gridwire.Pt(75, 30)})

	s.UpsertConduit(30, store.Conduit{From: 20, To: 22, Color: copper, Enabled: true, StrokeWidth: 2})
	s.UpsertConduit(31, store.Conduit{From: 22, To: 21, Color: copper, Enabled: true, StrokeWidth: 2})

	// Junction dot.
	s.UpsertCircle(32, store.Circle{
		Center: gridwire.Pt(75, 30), RX: 1.5, RY: 1.5, SX: 1, SY: 1,
		Fill: copper,
	})

	// Ground bus along the bottom edge.
	s.UpsertPolylinePoints(40, store.Polyline{Color: green, Enabled: true, StrokeWidth: 1.5},
		[]gridwire.Point{
			gridwire.Pt(10, 90), gridwire.Pt(60, 90),
			gridwire.Pt(60, 80), gridwire.Pt(140, 80),
		})

	// Annotations.
	s.UpsertArrow(50, store.Arrow{
		A: gridwire.Pt(75, 10), B: gridwire.Pt(75, 26), HeadLength: 5,
		StrokeOn: true, Stroke: white, StrokeWidth: 1.5,
	})
	s.UpsertPolygon(51, store.Polygon{
		Center: gridwire.Pt(140, 12), RX: 6, RY: 6, SX: 1, SY: 1, Sides: 3,
		StrokeOn: true, Stroke: gridwire.RGBA{R: 1, G: 0.8, A: 1}, StrokeWidth: 1.5,
	})
}
