package game

import (
	"encoding/json"
	"math"
	"time"
)

const (
	DefaultStrokeColor = -16777216 // opaque black, Android color int
	DefaultStrokeWidth = 5.0
)

type DrawingPoint struct {
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Timestamp time.Time `json:"timestamp"`
}

func (p DrawingPoint) DistanceTo(other DrawingPoint) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DrawingPath is one continuous stroke.
type DrawingPath struct {
	Points      []DrawingPoint `json:"points"`
	Color       int32          `json:"color"`
	StrokeWidth float64        `json:"strokeWidth"`
}

// IsValid requires two points, the minimum for a drawable stroke.
func (p DrawingPath) IsValid() bool {
	return len(p.Points) >= 2
}

// Length approximates the stroke length; derived, never stored.
func (p DrawingPath) Length() float64 {
	var length float64
	for i := 1; i < len(p.Points); i++ {
		length += p.Points[i].DistanceTo(p.Points[i-1])
	}
	return length
}

type Drawing struct {
	PlayerID  PlayerID      `json:"playerId"`
	Round     int           `json:"round"`
	Paths     []DrawingPath `json:"paths"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewDrawing(player PlayerID, round int, paths []DrawingPath) Drawing {
	return Drawing{PlayerID: player, Round: round, Paths: paths, Timestamp: time.Now()}
}

func (d Drawing) IsEmpty() bool {
	return len(d.Paths) == 0
}

func (d Drawing) TotalPoints() int {
	var total int
	for _, path := range d.Paths {
		total += len(path.Points)
	}
	return total
}

// FitWithin drops the oldest paths until the drawing encodes to at
// most limit bytes. The newest strokes survive: they carry the turn's
// final shape.
func (d Drawing) FitWithin(limit int) Drawing {
	for len(d.Paths) > 0 {
		data, err := json.Marshal(d)
		if err != nil || len(data) <= limit {
			break
		}
		d.Paths = d.Paths[1:]
	}
	if len(d.Paths) == 0 {
		d.Paths = nil
	}
	return d
}

type DrawingBounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (b DrawingBounds) Width() float64  { return b.Right - b.Left }
func (b DrawingBounds) Height() float64 { return b.Bottom - b.Top }

func (b DrawingBounds) Center() DrawingPoint {
	return DrawingPoint{X: (b.Left + b.Right) / 2, Y: (b.Top + b.Bottom) / 2}
}

// Bounds computes the bounding box over all paths; ok is false for an
// empty drawing.
func (d Drawing) Bounds() (DrawingBounds, bool) {
	var bounds DrawingBounds
	var seen bool

	for _, path := range d.Paths {
		for _, point := range path.Points {
			if !seen {
				bounds = DrawingBounds{Left: point.X, Top: point.Y, Right: point.X, Bottom: point.Y}
				seen = true
				continue
			}
			bounds.Left = math.Min(bounds.Left, point.X)
			bounds.Top = math.Min(bounds.Top, point.Y)
			bounds.Right = math.Max(bounds.Right, point.X)
			bounds.Bottom = math.Max(bounds.Bottom, point.Y)
		}
	}

	return bounds, seen
}
