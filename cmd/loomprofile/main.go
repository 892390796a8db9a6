// Profiling:
// go build ./cmd/loomprofile
// go tool pprof -http=":8000" -nodefraction=0.001 ./loomprofile mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/latticeworks/loom"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

func main() {
	rounds := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		universe := loom.NewUniverse()

		for i := 0; i < numEntities; i++ {
			set := loom.NewComponentSet()
			loom.SetComponent(set, position{})
			loom.SetComponent(set, velocity{X: 1, Y: 1})
			if _, err := universe.Create(set); err != nil {
				panic(err)
			}
		}

		for range iters {
			entities := universe.AllEntities()
			loom.Iterate2(universe, entities, func(_ loom.EntityHandle, pos *position, vel *velocity) {
				pos.X += vel.X
				pos.Y += vel.Y
			})
		}

		for _, e := range universe.AllEntities() {
			if err := universe.Destroy(e); err != nil {
				panic(err)
			}
		}
	}
}
