//go:build !ebiten

package ui

import (
	"mad-sand/internal/core"
	"mad-sand/internal/sims/sandbox"
)

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(core.Sim, int) *HUD { return nil }

// Tool returns the first toolbox entry in the headless build.
func (h *HUD) Tool() sandbox.Tool { return sandbox.Tools()[0] }

// Brush returns zero in the headless build.
func (h *HUD) Brush() int { return 0 }

// Update is a no-op in the headless build.
func (h *HUD) Update(int) bool { return false }

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
