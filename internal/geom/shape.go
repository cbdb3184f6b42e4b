package geom

import "math"

const epsilon = 1e-9

// Line is a directed segment from Start to End.
type Line struct {
	Start Vec2 `json:"start"`
	End   Vec2 `json:"end"`
}

// Ln is a convenience constructor for Line.
func Ln(x1, y1, x2, y2 float64) Line {
	return Line{Vec2{x1, y1}, Vec2{x2, y2}}
}

// Direction returns End-Start.
func (l Line) Direction() Vec2 {
	return l.End.Sub(l.Start)
}

// Len returns the segment length.
func (l Line) Len() float64 {
	return l.Direction().Len()
}

// Contains reports whether o lies on l: collinear, with both endpoints within l.
func (l Line) Contains(o Line) bool {
	return l.containsPoint(o.Start) && l.containsPoint(o.End)
}

func (l Line) containsPoint(p Vec2) bool {
	d := l.Direction()
	w := p.Sub(l.Start)
	if math.Abs(d.X*w.Y-d.Y*w.X) > epsilon {
		return false
	}
	dot := d.X*w.X + d.Y*w.Y
	return dot >= -epsilon && dot <= d.X*d.X+d.Y*d.Y+epsilon
}

// AABB is an axis aligned bounding box.
type AABB struct {
	Min, Max Vec2
}

// Width of the box.
func (b AABB) Width() float64 { return b.Max.X - b.Min.X }

// Height of the box.
func (b AABB) Height() float64 { return b.Max.Y - b.Min.Y }

// Center returns the midpoint of the box.
func (b AABB) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Polygon is a closed outline; the last point connects back to the first.
type Polygon []Vec2

// BoundingBox returns the smallest AABB containing every point.
func (p Polygon) BoundingBox() AABB {
	if len(p) == 0 {
		return AABB{}
	}
	box := AABB{Min: p[0], Max: p[0]}
	for _, pt := range p[1:] {
		box.Min.X = math.Min(box.Min.X, pt.X)
		box.Min.Y = math.Min(box.Min.Y, pt.Y)
		box.Max.X = math.Max(box.Max.X, pt.X)
		box.Max.Y = math.Max(box.Max.Y, pt.Y)
	}
	return box
}

// Centroid returns the area centroid, falling back to the vertex average for
// degenerate outlines.
func (p Polygon) Centroid() Vec2 {
	if len(p) == 0 {
		return Vec2{}
	}
	var area, cx, cy float64
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		cross := a.X*b.Y - b.X*a.Y
		area += cross
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}
	if math.Abs(area) < epsilon {
		var sum Vec2
		for _, pt := range p {
			sum = sum.Add(pt)
		}
		return sum.Scale(1 / float64(len(p)))
	}
	area /= 2
	return Vec2{cx / (6 * area), cy / (6 * area)}
}

// Boundary returns the polygon's edges in order, including the closing edge.
func (p Polygon) Boundary() []Line {
	if len(p) < 2 {
		return nil
	}
	lines := make([]Line, 0, len(p))
	for i := range p {
		lines = append(lines, Line{p[i], p[(i+1)%len(p)]})
	}
	return lines
}

// Walls returns the maximal straight runs of the boundary. Consecutive edges
// pointing the same way are merged, so a wall split by door vertices comes
// back as one line from corner to corner.
func (p Polygon) Walls() []Line {
	var edges []Line
	for _, e := range p.Boundary() {
		if e.Len() > epsilon {
			edges = append(edges, e)
		}
	}
	if len(edges) == 0 {
		return nil
	}

	// Start on an edge that begins a corner so the wrap-around merges cleanly.
	start := 0
	for i := range edges {
		prev := edges[(i+len(edges)-1)%len(edges)]
		if !sameDirection(prev, edges[i]) {
			start = i
			break
		}
	}

	var walls []Line
	for k := range edges {
		e := edges[(start+k)%len(edges)]
		if n := len(walls); n > 0 && sameDirection(walls[n-1], e) {
			walls[n-1].End = e.End
			continue
		}
		walls = append(walls, e)
	}
	return walls
}

func sameDirection(a, b Line) bool {
	da, db := a.Direction().Normalize(), b.Direction().Normalize()
	return math.Abs(da.X-db.X) < epsilon && math.Abs(da.Y-db.Y) < epsilon
}
