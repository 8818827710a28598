package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/phanxgames/sapling"
)

func newDumpCommand(opts *rootOptions) *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Step the demo rig headlessly and print its transform tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 0 {
				return errors.Errorf("invalid frame count %d", frames)
			}
			scene := sapling.NewScene()
			scene.SetDebugMode(opts.cfg.Debug)
			buildDemo(scene)

			dt := 1.0 / float64(opts.cfg.TPS)
			for i := 0; i < frames; i++ {
				if err := scene.Step(dt); err != nil {
					return errors.Wrapf(err, "frame %d", i)
				}
			}
			opts.logf("stepped %d frames", scene.Frame())
			return scene.Root().DumpTree(cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", 60, "frames to simulate before dumping")
	return cmd
}
