package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/phanxgames/sapling"
)

type benchOptions struct {
	Chains int
	Length int
	Frames int
	Mode   string // "batch" | "node"
}

func newBenchCommand(opts *rootOptions) *cobra.Command {
	bo := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure joint hierarchy updates against per-node propagation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bo.Chains <= 0 || bo.Length < 2 || bo.Frames <= 0 {
				return errors.Errorf("invalid bench shape: chains=%d length=%d frames=%d", bo.Chains, bo.Length, bo.Frames)
			}
			var step func(frame int)
			scene := sapling.NewScene()
			switch bo.Mode {
			case "batch":
				step = buildBatchBench(scene.Root(), bo)
			case "node":
				step = buildNodeBench(scene.Root(), bo)
			default:
				return errors.Errorf("invalid mode %q: must be batch or node", bo.Mode)
			}
			scene.SetUpdateFunc(func() error {
				step(int(scene.Frame()))
				return nil
			})

			var work sapling.WorkCounters
			start := time.Now()
			for i := 0; i < bo.Frames; i++ {
				if err := scene.Step(1.0 / 60); err != nil {
					return errors.Wrapf(err, "frame %d", i)
				}
				w := scene.LastWork()
				work.Invalidations += w.Invalidations
				work.Recomputes += w.Recomputes
				work.JointPasses += w.JointPasses
			}
			elapsed := time.Since(start)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode=%s chains=%d length=%d frames=%d\n", bo.Mode, bo.Chains, bo.Length, bo.Frames)
			fmt.Fprintf(out, "total=%s per_frame=%s\n", elapsed, elapsed/time.Duration(bo.Frames))
			fmt.Fprintf(out, "invalidations/frame=%d recomputes/frame=%d joint_passes/frame=%d\n",
				work.Invalidations/bo.Frames, work.Recomputes/bo.Frames, work.JointPasses/bo.Frames)
			opts.logf("bench done in %s", elapsed)
			return nil
		},
	}

	cmd.Flags().IntVar(&bo.Chains, "chains", 200, "number of joint chains")
	cmd.Flags().IntVar(&bo.Length, "length", 16, "joints per chain")
	cmd.Flags().IntVar(&bo.Frames, "frames", 600, "frames to simulate")
	cmd.Flags().StringVar(&bo.Mode, "mode", "batch", "update mode (batch|node)")
	return cmd
}

// buildChains creates chains of the given length under root. Every joint
// beyond the first is locked when lock is set.
func buildChains(root *sapling.Transform, bo *benchOptions, lock bool) [][]*sapling.Transform {
	chains := make([][]*sapling.Transform, bo.Chains)
	for c := range chains {
		parent := root
		chain := make([]*sapling.Transform, bo.Length)
		for i := range chain {
			j := sapling.NewTransform(fmt.Sprintf("chain%d_%d", c, i))
			j.SetLocalOrigin(sapling.Vec3{0, 0.25, 0})
			j.SetLocked(lock && i > 0)
			parent.AddChild(j)
			chain[i] = j
			parent = j
		}
		chains[c] = chain
	}
	return chains
}

// buildBatchBench writes each chain's local array directly and runs one
// world pass per chain per frame.
func buildBatchBench(root *sapling.Transform, bo *benchOptions) func(frame int) {
	chains := buildChains(root, bo, true)
	hiers := make([]*sapling.JointHierarchy, 0, len(chains))
	for _, chain := range chains {
		if chain[0].ConstructJointHierarchy() {
			hiers = append(hiers, chain[0].JointHierarchy())
		}
	}
	return func(frame int) {
		pose := benchPose(frame)
		m := pose.Matrix()
		for _, h := range hiers {
			local := h.LocalMatrices()
			for i := 1; i < len(local); i++ {
				local[i] = m
			}
			h.UpdateJointHierarchy(h.ParentIndexes())
		}
	}
}

// buildNodeBench writes every joint through its setter and lets the resolve
// phase recompute world matrices one node at a time.
func buildNodeBench(root *sapling.Transform, bo *benchOptions) func(frame int) {
	chains := buildChains(root, bo, false)
	return func(frame int) {
		pose := benchPose(frame)
		for _, chain := range chains {
			for _, j := range chain[1:] {
				j.SetLocalPose(pose)
			}
		}
	}
}

func benchPose(frame int) sapling.Pose {
	p := sapling.IdentityPose()
	p.Origin = sapling.Vec3{0, 0.25, 0}
	p.Rotation = rotZ(float64(frame%120) * 0.005)
	return p
}
