package sapling

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// Run opens a window and drives scene with ebiten's game loop until the
// window is closed or a phase returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(cfg.TPS)

	scene.PixelsPerUnit = cfg.PixelsPerUnit
	scene.ShowStats = cfg.ShowStats
	scene.SetDebugMode(cfg.Debug)

	if err := ebiten.RunGame(scene); err != nil {
		return errors.Wrap(err, "run game")
	}
	return nil
}
