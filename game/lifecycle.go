package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
)

// cleanupRemoved removes stems queued by Despawn.
// Runs after the stem query completes so the world is unlocked.
func (g *Game) cleanupRemoved() {
	if len(g.toRemove) == 0 {
		return
	}

	for _, entity := range g.toRemove {
		if !g.world.Alive(entity) {
			continue
		}
		id := g.stemMap.Get(entity).ID

		if g.stemRenderer != nil {
			g.stemRenderer.Forget(id)
		}
		if g.hasSelection && g.selected == entity {
			g.hasSelection = false
		}

		g.world.RemoveEntity(entity)
		g.collector.RecordDespawn()
		slog.Debug("stem removed", "id", id)
	}
	g.toRemove = g.toRemove[:0]

	if !g.hasSelection {
		g.selectFirst()
	}
}

// selectFirst selects the first live stem, if any.
func (g *Game) selectFirst() {
	query := g.stemFilter.Query()
	if query.Next() {
		g.selected = query.Entity()
		g.hasSelection = true
		query.Close()
		return
	}
	g.selected = ecs.Entity{}
	g.hasSelection = false
}
