package sandbox

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"mad-sand/internal/ragdoll"
)

// Params holds the tunable constants of hazards, explosions and equipment.
type Params struct {
	HazardScale   float64 `yaml:"hazard_scale"`
	BurnTicks     int     `yaml:"burn_ticks"`
	BurnDamage    float64 `yaml:"burn_damage"`
	BurnSpread    float64 `yaml:"burn_spread"`
	QuenchHeal    float64 `yaml:"quench_heal"`
	FlickerPeriod int     `yaml:"flicker_period"`

	ExplosionMaxAge int     `yaml:"explosion_max_age"`
	ImpulseScale    float64 `yaml:"impulse_scale"`
	DamageScale     float64 `yaml:"damage_scale"`
	CoreDamage      float64 `yaml:"core_damage"`
	KnockdownTicks  int     `yaml:"knockdown_ticks"`
	DetachChance    float64 `yaml:"detach_chance"`
	ChainFuse       int     `yaml:"chain_fuse"`

	BombFuse       int     `yaml:"bomb_fuse"`
	BombRadius     int     `yaml:"bomb_radius"`
	BombPower      float64 `yaml:"bomb_power"`
	GrenadeFuse    int     `yaml:"grenade_fuse"`
	GrenadeRadius  int     `yaml:"grenade_radius"`
	GrenadePower   float64 `yaml:"grenade_power"`
	GrenadeGravity float64 `yaml:"grenade_gravity"`

	GunCooldown     int     `yaml:"gun_cooldown"`
	GunRange        float64 `yaml:"gun_range"`
	ProjectileSpeed float64 `yaml:"projectile_speed"`
	ProjectileLife  int     `yaml:"projectile_life"`
	ProjectileHit   float64 `yaml:"projectile_damage"`
	SwordCooldown   int     `yaml:"sword_cooldown"`
	SwordReach      float64 `yaml:"sword_reach"`
	SwordDamage     float64 `yaml:"sword_damage"`

	BoardChance   float64 `yaml:"board_chance"`
	UnboardChance float64 `yaml:"unboard_chance"`
	CarSpeed      float64 `yaml:"car_speed"`
	BoatSpeed     float64 `yaml:"boat_speed"`
	PlaneSpeed    float64 `yaml:"plane_speed"`
}

// Config controls the sandbox dimensions and tunables.
type Config struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`

	Params Params         `yaml:"params"`
	Body   ragdoll.Config `yaml:"body"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  200,
		Height: 150,
		Seed:   1337,
		Params: Params{
			HazardScale:   1.0,
			BurnTicks:     180,
			BurnDamage:    0.08,
			BurnSpread:    0.05,
			QuenchHeal:    0.05,
			FlickerPeriod: 3,

			ExplosionMaxAge: 20,
			ImpulseScale:    0.05,
			DamageScale:     0.8,
			CoreDamage:      25,
			KnockdownTicks:  60,
			DetachChance:    0.5,
			ChainFuse:       3,

			BombFuse:       60,
			BombRadius:     10,
			BombPower:      50,
			GrenadeFuse:    90,
			GrenadeRadius:  8,
			GrenadePower:   40,
			GrenadeGravity: 0.15,

			GunCooldown:     40,
			GunRange:        60,
			ProjectileSpeed: 4,
			ProjectileLife:  60,
			ProjectileHit:   25,
			SwordCooldown:   30,
			SwordReach:      6,
			SwordDamage:     20,

			BoardChance:   0.01,
			UnboardChance: 0.002,
			CarSpeed:      0.5,
			BoatSpeed:     0.3,
			PlaneSpeed:    1.2,
		},
		Body: ragdoll.DefaultConfig(),
	}
}

// LoadConfig reads a YAML file over the defaults. Keys absent from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("config %s: invalid size %dx%d", path, cfg.Width, cfg.Height)
	}
	return cfg, nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if path, ok := cfg["config"]; ok && path != "" {
		if loaded, err := LoadConfig(path); err == nil {
			c = loaded
		}
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["hazard_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.HazardScale = parsed
		}
	}
	if v, ok := cfg["bomb_fuse"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.BombFuse = parsed
		}
	}
	if v, ok := cfg["bomb_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.BombRadius = parsed
		}
	}
	if v, ok := cfg["gravity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Body.Gravity = parsed
		}
	}
	if v, ok := cfg["iterations"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Body.Iterations = parsed
		}
	}
	return c
}
