package ragdoll

// Config holds the physical and locomotion constants of actors.
type Config struct {
	Gravity        float64 `yaml:"gravity"`
	Friction       float64 `yaml:"friction"`
	MaxSpeed       float64 `yaml:"max_speed"`
	Iterations     int     `yaml:"iterations"`
	GroundFriction float64 `yaml:"ground_friction"`
	Buoyancy       float64 `yaml:"buoyancy"`
	WaterDrag      float64 `yaml:"water_drag"`

	WalkSpeed      float64 `yaml:"walk_speed"`
	PanicSpeed     float64 `yaml:"panic_speed"`
	WalkPhaseStep  float64 `yaml:"walk_phase_step"`
	PanicPhaseStep float64 `yaml:"panic_phase_step"`
	StepLength     float64 `yaml:"step_length"`
	JumpUp         float64 `yaml:"jump_up"`
	JumpForward    float64 `yaml:"jump_forward"`
	StepUp         float64 `yaml:"step_up"`
}

// DefaultConfig returns the tuned actor constants.
func DefaultConfig() Config {
	return Config{
		Gravity:        0.2,
		Friction:       0.99,
		MaxSpeed:       3,
		Iterations:     8,
		GroundFriction: 0.8,
		Buoyancy:       0.24,
		WaterDrag:      0.85,

		WalkSpeed:      0.35,
		PanicSpeed:     0.7,
		WalkPhaseStep:  0.25,
		PanicPhaseStep: 0.4,
		StepLength:     2,
		JumpUp:         2.5,
		JumpForward:    0.6,
		StepUp:         1.2,
	}
}
