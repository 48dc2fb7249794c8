package object

import (
	"github.com/tomz197/invaders/internal/physics"
)

// InvaderType is the row class of an invader.
type InvaderType byte

const (
	InvaderA InvaderType = 'A' // Row closest to the player
	InvaderB InvaderType = 'B'
	InvaderC InvaderType = 'C' // Topmost rows
)

// Points awarded for destroying each type.
var invaderPoints = map[InvaderType]int{
	InvaderA: 10,
	InvaderB: 20,
	InvaderC: 30,
}

// Invader is a single enemy. Its motion is driven by its Formation.
type Invader struct {
	Body
	Width  float64
	Height float64
	Type   InvaderType
	Points int
}

// NewInvader creates an invader with its top-left corner at pos.
func NewInvader(id ID, pos physics.Vector2, width, height float64, typ InvaderType) *Invader {
	return &Invader{
		Body:   Body{ID: id, Pos: pos},
		Width:  width,
		Height: height,
		Type:   typ,
		Points: invaderPoints[typ],
	}
}

// invaderTypeForRow assigns types so the bottom row is worth least.
func invaderTypeForRow(row, rows int) InvaderType {
	switch row {
	case rows - 1:
		return InvaderA
	case rows - 2:
		return InvaderB
	default:
		return InvaderC
	}
}

// Kind implements Entity.
func (i *Invader) Kind() Kind {
	return KindInvader
}

// Bounds implements Entity.
func (i *Invader) Bounds() physics.Rect {
	return physics.Rect{X: i.Pos.X, Y: i.Pos.Y, W: i.Width, H: i.Height}
}

// Muzzle is where this invader's shots spawn: horizontal center, bottom edge.
func (i *Invader) Muzzle() physics.Vector2 {
	return physics.Vector2{X: i.Pos.X + i.Width/2, Y: i.Pos.Y + i.Height}
}
