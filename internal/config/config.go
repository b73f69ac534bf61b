package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/nightfall/internal/model"
)

// Simulator holds all configuration for the simulator binary.
type Simulator struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	LogLevel     string        `yaml:"log_level"`
	Seed         uint64        `yaml:"seed"` // 0 = random

	// Global zombie population cap
	MaxZombies int `yaml:"max_zombies"`

	Database  DatabaseConfig  `yaml:"database"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	World     WorldConfig     `yaml:"world"`

	ZombieAreas []ZombieArea `yaml:"zombie_areas"`
	GhostAreas  []GhostArea  `yaml:"ghost_areas"`

	// Per-archetype overrides merged over DefaultTuning
	Archetypes map[string]Tuning `yaml:"archetypes"`

	// Hot reload of archetype tuning
	Watch bool `yaml:"watch"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the encounter ledger.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// TelemetryConfig controls the websocket snapshot stream.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
	// Publish every Nth tick
	Every int `yaml:"every"`
}

// Addr returns host:port to listen on.
func (t TelemetryConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.BindAddress, t.Port)
}

// Point is a world position in config files.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec converts to model.Vec3.
func (p Point) Vec() model.Vec3 {
	return model.V(p.X, p.Y, p.Z)
}

// Obstacle is a static axis-aligned box on the ground plane.
type Obstacle struct {
	Min   Point `yaml:"min"`
	Max   Point `yaml:"max"`
	Layer uint  `yaml:"layer"` // bit index, mask = 1 << layer
}

// PlayerConfig describes the simulated player.
type PlayerConfig struct {
	Spawn           Point         `yaml:"spawn"`
	Patrol          []Point       `yaml:"patrol"`
	Speed           float64       `yaml:"speed"`
	MaxHealth       float64       `yaml:"max_health"`
	GunshotInterval time.Duration `yaml:"gunshot_interval"` // 0 = silent
}

// WorldConfig describes the arena.
type WorldConfig struct {
	Min       Point        `yaml:"min"`
	Max       Point        `yaml:"max"`
	Obstacles []Obstacle   `yaml:"obstacles"`
	Waypoints []Point      `yaml:"waypoints"` // zombie wander points
	Player    PlayerConfig `yaml:"player"`
}

// ZombieArea spawns zombies periodically around a center.
type ZombieArea struct {
	ID         string        `yaml:"id"`
	Center     Point         `yaml:"center"`
	Size       Point         `yaml:"size"`
	MaxZombies int           `yaml:"max_zombies"`
	SpawnCount int           `yaml:"spawn_count"`
	Interval   time.Duration `yaml:"interval"`
	Archetypes []string      `yaml:"archetypes"`
}

// Box is a spawn box.
type Box struct {
	Center Point `yaml:"center"`
	Size   Point `yaml:"size"`
}

// GhostArea spawns a fixed number of one archetype once at startup.
type GhostArea struct {
	ID        string `yaml:"id"`
	Archetype string `yaml:"archetype"`
	Boxes     []Box  `yaml:"boxes"`
	Count     int    `yaml:"count"`
}

// DefaultSimulator returns Simulator config with sensible defaults.
func DefaultSimulator() Simulator {
	return Simulator{
		TickInterval: 100 * time.Millisecond,
		LogLevel:     "info",
		MaxZombies:   30,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "nightfall",
			Password: "nightfall",
			DBName:   "nightfall",
			SSLMode:  "disable",
		},
		Telemetry: TelemetryConfig{
			BindAddress: "127.0.0.1",
			Port:        8088,
			Every:       1,
		},
		World: WorldConfig{
			Min: Point{X: -50, Z: -50},
			Max: Point{X: 50, Z: 50},
			Player: PlayerConfig{
				Speed:           3,
				MaxHealth:       100,
				GunshotInterval: 4 * time.Second,
			},
		},
	}
}

// LoadSimulator loads simulator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulator(path string) (Simulator, error) {
	cfg := DefaultSimulator()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values the simulator cannot run with.
func (s Simulator) Validate() error {
	if s.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", s.TickInterval)
	}
	if s.MaxZombies < 0 {
		return fmt.Errorf("max_zombies must not be negative, got %d", s.MaxZombies)
	}
	for name := range s.Archetypes {
		if _, ok := model.ParseArchetype(name); !ok {
			return fmt.Errorf("archetypes: unknown archetype %q", name)
		}
	}
	for _, area := range s.ZombieAreas {
		if area.ID == "" {
			return fmt.Errorf("zombie_areas: area without id")
		}
		for _, name := range area.Archetypes {
			a, ok := model.ParseArchetype(name)
			if !ok || !a.IsZombie() {
				return fmt.Errorf("zombie area %s: %q is not a zombie archetype", area.ID, name)
			}
		}
	}
	for _, area := range s.GhostAreas {
		if area.ID == "" {
			return fmt.Errorf("ghost_areas: area without id")
		}
		if _, ok := model.ParseArchetype(area.Archetype); !ok {
			return fmt.Errorf("ghost area %s: unknown archetype %q", area.ID, area.Archetype)
		}
	}
	return nil
}

// TuningTable merges the configured overrides over the stock values for every archetype.
func (s Simulator) TuningTable() TuningTable {
	return BuildTuningTable(s.Archetypes)
}
