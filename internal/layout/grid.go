// Package layout places the virtualized grid cells of the media wall in world
// space and projects them to the viewport.
//
// World units: one slot is 1 unit tall and SlotSize(...)[0] units wide, so
// slots keep the viewport's aspect ratio. X grows right, Y up, Z toward the
// viewer; the undeformed wall lies in the Z = 0 plane.
package layout

import (
	"math"

	"media-wall/internal/config"
	"media-wall/internal/mathutil"
)

// Overscan is the number of extra cells computed beyond each viewport edge.
const Overscan = 1

// Viewport is the drawable area in device pixels.
type Viewport struct {
	Width  int
	Height int
}

// GridCoord addresses a cell in the tileable range [0,columns) × [0,rows).
type GridCoord struct {
	Column int
	Row    int
}

// CellTransform is the per-frame placement of one visible cell.
type CellTransform struct {
	Slot        [2]int // visible slot (i, j), -Overscan .. columns/rows-1+Overscan
	Grid        GridCoord
	Position    mathutil.Vec3 // world center, Z == DepthOffset
	DepthOffset float64
	Size        mathutil.Vec2 // footprint in world units
	Scale       float64       // perspective scale at the center
	MediaIndex  int           // in [0, catalog length)
}

// SlotSize returns the world size of one grid slot. A zero viewport yields
// square slots.
func SlotSize(g config.Gallery, vp Viewport) mathutil.Vec2 {
	if vp.Width <= 0 || vp.Height <= 0 {
		return mathutil.Vec2{1, 1}
	}
	slotW := float64(vp.Width) / float64(g.Columns)
	slotH := float64(vp.Height) / float64(g.Rows)
	return mathutil.Vec2{slotW / slotH, 1}
}

// CellCount returns how many transforms Layout produces for g.
func CellCount(g config.Gallery) int {
	return (g.Columns + 2*Overscan) * (g.Rows + 2*Overscan)
}

// Reachable returns how many catalog items can appear on the wall. The grid
// repeats every Columns x Rows slots, so items past that are never shown.
func Reachable(g config.Gallery, catalogLen int) int {
	return min(catalogLen, g.Columns*g.Rows)
}

// Layout appends one CellTransform per visible and overscanned cell to dst
// (reusing its storage) for the smoothed scroll offset, in slots.
// catalogLen must be at least 1; g must be valid.
func Layout(dst []CellTransform, offset mathutil.Vec2, g config.Gallery, catalogLen int, vp Viewport) []CellTransform {
	dst = dst[:0]
	slot := SlotSize(g, vp)
	foot := slot.Scale(1 - g.Gap)

	fx, rx := split(offset[0])
	fy, ry := split(offset[1])
	halfW := float64(g.Columns) / 2
	halfH := float64(g.Rows) / 2

	for j := -Overscan; j < g.Rows+Overscan; j++ {
		row := mathutil.WrapInt(0, g.Rows, j+fy)
		y := (halfH - (float64(j) - ry) - 0.5) * slot[1]
		depth := DepthOffset(y, g.CurveDepth, g.CurveWidth)
		scale := g.CameraDistance / (g.CameraDistance - depth)

		for i := -Overscan; i < g.Columns+Overscan; i++ {
			col := mathutil.WrapInt(0, g.Columns, i+fx)
			x := (float64(i) - rx - halfW + 0.5) * slot[0]

			dst = append(dst, CellTransform{
				Slot:        [2]int{i, j},
				Grid:        GridCoord{Column: col, Row: row},
				Position:    mathutil.Vec3{x, y, depth},
				DepthOffset: depth,
				Size:        foot,
				Scale:       scale,
				MediaIndex:  mathutil.WrapInt(0, catalogLen, row*g.Columns+col),
			})
		}
	}
	return dst
}

// split returns the integer floor of v and the fractional remainder in [0, 1).
func split(v float64) (int, float64) {
	f := math.Floor(v)
	return int(f), v - f
}

// Mesh appends the corner points of the cell's curved footprint to dst:
// strips+1 rows ordered top to bottom, each row as (left, right). Every row
// sits on the wall surface at its own height, so cells sharing an edge share
// its depth.
func (c CellTransform) Mesh(dst []mathutil.Vec3, g config.Gallery, strips int) []mathutil.Vec3 {
	if strips < 1 {
		strips = 1
	}
	left := c.Position[0] - c.Size[0]/2
	right := c.Position[0] + c.Size[0]/2
	top := c.Position[1] + c.Size[1]/2
	for k := 0; k <= strips; k++ {
		y := top - c.Size[1]*float64(k)/float64(strips)
		z := DepthOffset(y, g.CurveDepth, g.CurveWidth)
		dst = append(dst, mathutil.Vec3{left, y, z}, mathutil.Vec3{right, y, z})
	}
	return dst
}
