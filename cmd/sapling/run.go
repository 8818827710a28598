package main

import (
	"github.com/spf13/cobra"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/sapling"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	var (
		screenshotAt int
		follow       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the demo rig in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scene := sapling.NewScene()
			d := buildDemo(scene)
			opts.logf("demo built: %d joints in arm hierarchy", d.arm.NumJoints())

			if follow {
				scene.Camera().Follow(d.body, sapling.Vec3{}, 0.1)
			} else {
				scene.Camera().ScrollTo(0, 0.5, 1.5, ease.OutCubic)
			}
			if screenshotAt > 0 {
				scene.SetUpdateFunc(func() error {
					if scene.Frame() == uint64(screenshotAt) {
						opts.logf("queueing screenshot at frame %d", screenshotAt)
						scene.Screenshot("demo")
					}
					return nil
				})
			}
			return sapling.Run(scene, opts.cfg)
		},
	}

	cmd.Flags().IntVar(&screenshotAt, "screenshot-at", 0, "capture the debug view and a tree report at this frame (0 disables)")
	cmd.Flags().BoolVar(&follow, "follow", false, "camera follows the pendulum body")
	return cmd
}
