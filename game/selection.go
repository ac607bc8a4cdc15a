package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/renderer"
)

// selectNext cycles the selection through stems in query order.
func (g *Game) selectNext() {
	var first ecs.Entity
	found, takeNext := false, !g.hasSelection

	query := g.stemFilter.Query()
	for query.Next() {
		entity := query.Entity()
		if !found {
			first, found = entity, true
		}
		if takeNext {
			g.selected = entity
			g.hasSelection = true
			query.Close()
			return
		}
		if entity == g.selected {
			takeNext = true
		}
	}

	g.selected = first
	g.hasSelection = found
}

// pickStem returns the nearest stem whose mesh bounds the ray hits.
func (g *Game) pickStem(ray rl.Ray) (ecs.Entity, bool) {
	var closest ecs.Entity
	closestDist := float32(-1)

	query := g.stemFilter.Query()
	for query.Next() {
		_, transform, _, _, mesh := query.Get()
		if mesh.Tube.IsEmpty() {
			continue
		}
		box := mesh.Tube.Bounds()
		hit := rl.GetRayCollisionBox(ray, rl.BoundingBox{
			Min: renderer.Vec3(r3.Add(transform.Base, box.Min)),
			Max: renderer.Vec3(r3.Add(transform.Base, box.Max)),
		})
		if hit.Hit && (closestDist < 0 || hit.Distance < closestDist) {
			closest = query.Entity()
			closestDist = hit.Distance
		}
	}

	return closest, closestDist >= 0
}
