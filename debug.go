package sapling

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"
)

// WorkCounters counts transform work between two Scene frames.
type WorkCounters struct {
	Invalidations int // InvalidateWorldMatrix calls, including no-ops
	Recomputes    int // plain world matrix recomputations
	JointPasses   int // joint hierarchy world passes
}

// frameStats is a plain package-level counter set (sapling is
// single-threaded). Scene.Step snapshots and resets it every frame.
var frameStats WorkCounters

// debugStats holds per-frame timing and transform-work metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime  time.Duration
	physicsTime time.Duration
	resolveTime time.Duration
	work        WorkCounters
}

// debugLog prints timing and per-frame counters to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.updateTime + stats.physicsTime + stats.resolveTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[sapling] update: %v | physics: %v | resolve: %v | total: %v\n",
		stats.updateTime, stats.physicsTime, stats.resolveTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[sapling] invalidations: %d | recomputes: %d | joint passes: %d\n",
		stats.work.Invalidations, stats.work.Recomputes, stats.work.JointPasses)
}

// debugLogf prints a one-line debug message to stderr.
func debugLogf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[sapling] "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed
// transform is used. Only called in debug mode; in release mode callers skip
// this entirely.
func debugCheckDisposed(t *Transform, op string) {
	if t.disposed {
		panic(fmt.Sprintf("sapling debug: %s on disposed transform %q", op, t.Name))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(t *Transform) {
	depth := 0
	for p := t; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[sapling] warning: tree depth %d exceeds %d (transform %q)\n",
			depth, debugMaxTreeDepth, t.Name)
	}
}

// debugCheckChildCount warns on stderr if a transform has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(t *Transform) {
	if len(t.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[sapling] warning: transform %q has %d children (threshold %d)\n",
			t.Name, len(t.children), debugMaxChildCount)
	}
}

// --- Tree dump ---

// DumpTree writes one line per transform in the subtree rooted at t: name,
// storage authority, local and world origin, and flags. World matrices are
// resolved as they are printed.
func (t *Transform) DumpTree(w io.Writer) error {
	var b strings.Builder
	dumpTransform(&b, t, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func dumpTransform(b *strings.Builder, t *Transform, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(t.Name)
	if h := t.JointHierarchy(); h != nil {
		fmt.Fprintf(b, " joint[%d/%d]", t.JointIndex(), h.NumJoints())
	} else {
		b.WriteString(" plain")
	}
	fmt.Fprintf(b, " local=(%s) world=(%s)", formatVec3(t.LocalOrigin()), formatVec3(t.Origin()))
	if t.locked {
		b.WriteString(" locked")
	}
	if t.Kind != KindSpatial {
		b.WriteString(" " + t.Kind.String())
	}
	if t.physics != PhysicsNone {
		b.WriteString(" " + t.physics.String())
	}
	b.WriteByte('\n')
	for _, c := range t.children {
		dumpTransform(b, c, depth+1)
	}
}

// formatVec3 prints with three decimals, folding values that round to zero
// so the sign of tiny residues never shows up as "-0.000".
func formatVec3(v Vec3) string {
	var parts [3]string
	for i, f := range v {
		if math.Abs(f) < 5e-4 {
			f = 0
		}
		parts[i] = fmt.Sprintf("%.3f", f)
	}
	return strings.Join(parts[:], " ")
}
