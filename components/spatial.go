package components

// Position holds an agent's tile coordinates and its continuous position in
// pixels. The tile is always floor(P / tile size) of the continuous position.
type Position struct {
	X, Y   int
	PX, PY float64
}

// Chebyshev returns the king-move distance between two tiles.
func (p Position) Chebyshev(o Position) int {
	dx := p.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
