package sandbox

import (
	"math"
	"strconv"

	"mad-sand/internal/core"
)

func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	body := w.cfg.Body
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name: "Hazards",
			Params: []core.Parameter{
				floatParam("hazard_scale", "Hazard scale", params.HazardScale),
				intParam("burn_ticks", "Burn ticks", params.BurnTicks),
				floatParam("burn_damage", "Burn damage", params.BurnDamage),
				floatParam("quench_heal", "Quench heal", params.QuenchHeal),
			},
		},
		{
			Name: "Explosives",
			Params: []core.Parameter{
				intParam("bomb_fuse", "Bomb fuse", params.BombFuse),
				intParam("bomb_radius", "Bomb radius", params.BombRadius),
				floatParam("bomb_power", "Bomb power", params.BombPower),
				intParam("grenade_fuse", "Grenade fuse", params.GrenadeFuse),
				intParam("grenade_radius", "Grenade radius", params.GrenadeRadius),
				intParam("knockdown_ticks", "Knockdown ticks", params.KnockdownTicks),
			},
		},
		{
			Name: "Bodies",
			Params: []core.Parameter{
				floatParam("gravity", "Gravity", body.Gravity),
				floatParam("friction", "Friction", body.Friction),
				intParam("iterations", "Relax passes", body.Iterations),
				floatParam("walk_speed", "Walk speed", body.WalkSpeed),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "hazard_scale", Label: "Hazard", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, Max: 5, HasMin: true, HasMax: true},
		{Key: "bomb_fuse", Label: "Fuse", Type: core.ParamTypeInt, Step: 10, Min: 1, Max: 600, HasMin: true, HasMax: true},
		{Key: "bomb_radius", Label: "Blast", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 40, HasMin: true, HasMax: true},
		{Key: "gravity", Label: "Gravity", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "iterations", Label: "Relax", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 32, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer tunable and reports whether the key was
// recognised.
func (w *World) SetIntParameter(key string, value int) bool {
	ctrl, ok := w.control(key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	v := int(math.Round(ctrl.Clamp(float64(value))))
	switch key {
	case "bomb_fuse":
		w.cfg.Params.BombFuse = v
	case "bomb_radius":
		w.cfg.Params.BombRadius = v
	case "iterations":
		w.cfg.Body.Iterations = v
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a float tunable and reports whether the key was
// recognised.
func (w *World) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := w.control(key)
	if !ok || ctrl.Type != core.ParamTypeFloat {
		return false
	}
	v := ctrl.Clamp(value)
	switch key {
	case "hazard_scale":
		w.cfg.Params.HazardScale = v
	case "gravity":
		w.cfg.Body.Gravity = v
	default:
		return false
	}
	return true
}

func (w *World) control(key string) (core.ParameterControl, bool) {
	for _, c := range w.ParameterControls() {
		if c.Key == key {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
