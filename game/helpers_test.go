package game

import (
	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/terrain"
)

func init() {
	config.MustInit("")
}

// testConfig returns a private copy of the defaults that a test may modify.
func testConfig() *config.Config {
	cfg := *config.Cfg()
	return &cfg
}

// meadow is a 5x5 grass map with no decorations.
func meadow() World {
	return World{Grid: terrain.FromRows([]string{
		"ggggg",
		"ggggg",
		"ggggg",
		"ggggg",
		"ggggg",
	})}
}

// adultGenome is fixed so spawning draws nothing that matters to a test.
var adultGenome = components.Genome{Intelligence: 50, Strength: 50, Speed: 1, Sight: 5, MaxAge: 250}
