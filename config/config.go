// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Simulation   SimulationConfig   `yaml:"simulation"`
	Noise        NoiseConfig        `yaml:"noise"`
	Spawning     SpawningConfig     `yaml:"spawning"`
	Bush         BushConfig         `yaml:"bush"`
	Blob         BlobConfig         `yaml:"blob"`
	Traits       TraitsConfig       `yaml:"traits"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds map dimensions. The map is a grid of square tiles;
// agent positions are stored in pixel units (tile index * tile size).
type WorldConfig struct {
	MapWidth  int     `yaml:"map_width"`  // Tiles along x
	MapHeight int     `yaml:"map_height"` // Tiles along y
	TileSize  float64 `yaml:"tile_size"`  // Pixels per tile
}

// SimulationConfig holds tick loop parameters.
type SimulationConfig struct {
	DT                float64 `yaml:"dt"`
	RandomSeed        int64   `yaml:"random_seed"`        // 0 = derive from wall clock
	MaxTicks          int     `yaml:"max_ticks"`          // 0 = run until extinction
	Workers           int     `yaml:"workers"`            // <=1 runs the agent pass on one goroutine, -1 uses GOMAXPROCS
	ParallelThreshold int     `yaml:"parallel_threshold"` // Minimum population before workers are used
}

// NoiseConfig holds terrain height noise parameters.
type NoiseConfig struct {
	Scale       float64 `yaml:"scale"` // Tiles per noise unit
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"` // Amplitude multiplier per octave
	Lacunarity  float64 `yaml:"lacunarity"`  // Frequency multiplier per octave
}

// SpawningConfig holds per-tile spawn probabilities used when seeding a world.
type SpawningConfig struct {
	GrassVariants  int     `yaml:"grass_variants"` // Variant 0 marks a fertile tile
	BushGrass      float64 `yaml:"bush_grass"`
	BushForest     float64 `yaml:"bush_forest"`
	FlowerGrass    float64 `yaml:"flower_grass"`
	SugarCaneShore float64 `yaml:"sugar_cane_shore"`
	RockGrassSand  float64 `yaml:"rock_grass_sand"`
	RockForest     float64 `yaml:"rock_forest"`
	TreeForest     float64 `yaml:"tree_forest"`
	MushroomForest float64 `yaml:"mushroom_forest"`
	BlobGrassSand  float64 `yaml:"blob_grass_sand"`
	BlobForest     float64 `yaml:"blob_forest"`
}

// BushConfig holds berry bush growth thresholds. Both thresholds are on the
// cumulative timer since the last harvest.
type BushConfig struct {
	SproutTime float64 `yaml:"sprout_time"`
	RipeTime   float64 `yaml:"ripe_time"`
}

// BlobConfig holds the per-tick need, health and action constants.
type BlobConfig struct {
	MaxHP      float64 `yaml:"max_hp"`
	HungerRate float64 `yaml:"hunger_rate"` // Hunger gained per second
	ThirstRate float64 `yaml:"thirst_rate"` // Thirst gained per second

	StarvingHunger    float64 `yaml:"starving_hunger"`    // hp loss above this hunger
	DehydratedThirst  float64 `yaml:"dehydrated_thirst"`  // hp loss above this thirst
	StarvationDamage  float64 `yaml:"starvation_damage"`  // hp per second
	DehydrationDamage float64 `yaml:"dehydration_damage"` // hp per second
	WellFedHunger     float64 `yaml:"well_fed_hunger"`    // regen below this hunger
	HydratedThirst    float64 `yaml:"hydrated_thirst"`    // regen below this thirst
	RegenRate         float64 `yaml:"regen_rate"`         // hp per second per satisfied need

	OldAgeDrain float64 `yaml:"old_age_drain"` // hp per second once age >= max_age
	ElderAge    float64 `yaml:"elder_age"`
	ElderDrain  float64 `yaml:"elder_drain"` // extra hp per second at elder age
	MiddleAge   float64 `yaml:"middle_age"`

	HarvestDuration float64 `yaml:"harvest_duration"`
	HarvestHunger   float64 `yaml:"harvest_hunger"` // hunger removed per harvest
	HarvestHeal     float64 `yaml:"harvest_heal"`
	DrinkDuration   float64 `yaml:"drink_duration"`
	DrinkThirst     float64 `yaml:"drink_thirst"` // thirst removed per drink
	DrinkHeal       float64 `yaml:"drink_heal"`
	ArrivalRadius   float64 `yaml:"arrival_radius"` // Fraction of tile size

	FoodSearchHunger  float64 `yaml:"food_search_hunger"`
	WaterSearchThirst float64 `yaml:"water_search_thirst"`
	UrgentThirst      float64 `yaml:"urgent_thirst"`

	WanderCooldownMin float64 `yaml:"wander_cooldown_min"`
	WanderCooldownMax float64 `yaml:"wander_cooldown_max"`

	Condition ConditionConfig `yaml:"condition"`
}

// ConditionConfig holds the thresholds and multipliers that turn genome
// traits into effective stats each tick.
type ConditionConfig struct {
	WeakHunger  float64 `yaml:"weak_hunger"` // Weakened above
	WeakThirst  float64 `yaml:"weak_thirst"`
	FreshHunger float64 `yaml:"fresh_hunger"` // Invigorated below
	FreshThirst float64 `yaml:"fresh_thirst"`
	LowHP       float64 `yaml:"low_hp"` // Sight reduced below

	WeakSpeedDiv    float64 `yaml:"weak_speed_div"` // Per weakening need
	WeakStrengthDiv float64 `yaml:"weak_strength_div"`
	FreshSpeed      float64 `yaml:"fresh_speed"` // Per fresh need
	FreshStrength   float64 `yaml:"fresh_strength"`
	LowHPSight      float64 `yaml:"low_hp_sight"`

	MiddleSpeed    float64 `yaml:"middle_speed"`
	MiddleStrength float64 `yaml:"middle_strength"`
	MiddleSight    float64 `yaml:"middle_sight"`
	ElderSpeed     float64 `yaml:"elder_speed"`
	ElderStrength  float64 `yaml:"elder_strength"`
	ElderSight     float64 `yaml:"elder_sight"`
}

// TraitsConfig holds the ranges initial traits are drawn from when a seeded
// blob does not specify them. Integer ranges are inclusive.
type TraitsConfig struct {
	IntelligenceMin int     `yaml:"intelligence_min"`
	IntelligenceMax int     `yaml:"intelligence_max"`
	StrengthMin     int     `yaml:"strength_min"`
	StrengthMax     int     `yaml:"strength_max"`
	SpeedMin        float64 `yaml:"speed_min"`
	SpeedMax        float64 `yaml:"speed_max"`
	SightMin        float64 `yaml:"sight_min"`
	SightMax        float64 `yaml:"sight_max"`
	MaxAgeMin       float64 `yaml:"max_age_min"`
	MaxAgeMax       float64 `yaml:"max_age_max"`
}

// ReproductionConfig holds reproduction parameters.
type ReproductionConfig struct {
	AdultAge          float64 `yaml:"adult_age"`
	MateHealth        float64 `yaml:"mate_health"`  // Fraction of max hp required to search for a mate
	BreedHealth       float64 `yaml:"breed_health"` // Fraction of max hp required to breed
	MaxHunger         float64 `yaml:"max_hunger"`   // Hunger must be strictly below
	MaxThirst         float64 `yaml:"max_thirst"`   // Thirst must be strictly below
	ProbabilityPerSec float64 `yaml:"probability_per_sec"`
	AdultCooldown     float64 `yaml:"adult_cooldown"`
	NewbornCooldown   float64 `yaml:"newborn_cooldown"`
}

// MutationConfig holds the bounded perturbation applied to the parents'
// midpoint traits, and the floors applied after it.
type MutationConfig struct {
	IntelligenceJitter int     `yaml:"intelligence_jitter"`
	StrengthJitter     int     `yaml:"strength_jitter"`
	SpeedJitter        float64 `yaml:"speed_jitter"`
	SightJitter        float64 `yaml:"sight_jitter"`
	MaxAgeJitter       float64 `yaml:"max_age_jitter"`
	MinSpeed           float64 `yaml:"min_speed"`
	MinSight           float64 `yaml:"min_sight"`
	MinMaxAge          float64 `yaml:"min_max_age"`
	TraitMin           int     `yaml:"trait_min"` // Clamp for intelligence and strength
	TraitMax           int     `yaml:"trait_max"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow    float64 `yaml:"stats_window"`     // Seconds of sim time per stats window
	PerfWindow     int     `yaml:"perf_window"`      // Ticks averaged by the perf collector
	EventLog       bool    `yaml:"event_log"`        // Write events.jsonl.zst to the output dir
	Store          bool    `yaml:"store"`            // Write telemetry.db to the output dir
	YoungAge       float64 `yaml:"young_age"`        // Age bucket upper bound (inclusive)
	ElderBucketAge float64 `yaml:"elder_bucket_age"` // Age bucket lower bound (inclusive)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	EatRadius   float64 // Pixels from bush centre at which harvesting starts
	DrinkRadius float64 // Pixels from water tile centre at which drinking starts
	WorldW      float64 // Map width in pixels
	WorldH      float64 // Map height in pixels
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.World.TileSize <= 0 {
		c.World.TileSize = 32
	}
	if c.Spawning.GrassVariants < 1 {
		c.Spawning.GrassVariants = 1
	}
	if c.Blob.Condition.WeakSpeedDiv <= 0 {
		c.Blob.Condition.WeakSpeedDiv = 1
	}
	if c.Blob.Condition.WeakStrengthDiv <= 0 {
		c.Blob.Condition.WeakStrengthDiv = 1
	}
	if c.Blob.WanderCooldownMax < c.Blob.WanderCooldownMin {
		c.Blob.WanderCooldownMax = c.Blob.WanderCooldownMin
	}

	c.Derived.EatRadius = c.Blob.ArrivalRadius * c.World.TileSize
	c.Derived.DrinkRadius = c.Blob.ArrivalRadius * c.World.TileSize
	c.Derived.WorldW = float64(c.World.MapWidth) * c.World.TileSize
	c.Derived.WorldH = float64(c.World.MapHeight) * c.World.TileSize
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
