package systems

import (
	"math"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/terrain"
)

// TileCenter returns the pixel coordinate of the centre of tile index t.
func TileCenter(t int, tileSize float64) float64 {
	return float64(t)*tileSize + tileSize/2
}

// RandomHeading points the agent in a uniformly random direction and resets
// the wander cooldown.
func RandomHeading(b *components.Behavior, r RNG, c *config.BlobConfig) {
	angle := Uniform(r, 0, 2*math.Pi)
	b.DirX, b.DirY = math.Cos(angle), math.Sin(angle)
	b.WanderCooldown = Uniform(r, c.WanderCooldownMin, c.WanderCooldownMax)
}

// SteerToward points the agent at the centre of tile (tx, ty). An agent
// already at the centre keeps its heading.
func SteerToward(b *components.Behavior, pos components.Position, tx, ty int, tileSize float64) {
	vx := TileCenter(tx, tileSize) - pos.PX
	vy := TileCenter(ty, tileSize) - pos.PY
	d := math.Hypot(vx, vy)
	if d > 0 {
		b.DirX, b.DirY = vx/d, vy/d
	}
}

// Wander counts down the wander cooldown and picks a new heading on expiry.
func Wander(b *components.Behavior, dt float64, r RNG, c *config.BlobConfig) {
	b.WanderCooldown -= dt
	if b.WanderCooldown <= 0 {
		RandomHeading(b, r, c)
	}
}

// Move advances the agent along its heading by speed*dt tiles. The move is
// committed only if the destination tile is walkable; otherwise the agent
// stays put and picks a new random heading. Returns whether it moved.
func Move(pos *components.Position, b *components.Behavior, speed, dt, tileSize float64, q terrain.Query, r RNG, c *config.BlobConfig) bool {
	step := speed * dt * tileSize
	nx := pos.PX + b.DirX*step
	ny := pos.PY + b.DirY*step
	tx := int(math.Floor(nx / tileSize))
	ty := int(math.Floor(ny / tileSize))

	if !terrain.IsWalkable(q, tx, ty) {
		RandomHeading(b, r, c)
		return false
	}

	pos.PX, pos.PY = nx, ny
	pos.X, pos.Y = tx, ty
	return true
}

// pixelDist returns the distance in pixels from a position to the centre of
// tile (tx, ty).
func pixelDist(pos components.Position, tx, ty int, tileSize float64) float64 {
	return math.Hypot(TileCenter(tx, tileSize)-pos.PX, TileCenter(ty, tileSize)-pos.PY)
}
