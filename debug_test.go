package sapling

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	fn()
	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

// ---- Debug mode tests ------------------------------------------------------

func TestDebugMode_DisposedTransformPanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewTransform("parent")
	s.Root().AddChild(parent)

	child := NewTransform("child")
	child.Dispose()

	assertPanics(t, "AddChild", "disposed", func() { parent.AddChild(child) })
}

func TestDebugMode_DisposedWritePanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	n := NewTransform("n")
	n.Dispose()

	assertPanics(t, "SetLocalOrigin", "disposed", func() { n.SetLocalOrigin(Vec3{1, 0, 0}) })
}

func TestReleaseMode_DisposedTransformNoPanic(t *testing.T) {
	n := NewTransform("n")
	n.Dispose()
	n.SetLocalOrigin(Vec3{1, 0, 0})
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() {
		current := s.Root()
		for i := 0; i < debugMaxTreeDepth+5; i++ {
			child := NewTransform(fmt.Sprintf("depth_%d", i))
			current.AddChild(child)
			current = child
		}
	})

	if !strings.Contains(output, "warning: tree depth") {
		t.Errorf("expected tree depth warning in stderr, got: %q", output)
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() {
		parent := NewTransform("many_children")
		s.Root().AddChild(parent)
		for i := 0; i < debugMaxChildCount+1; i++ {
			parent.AddChild(NewTransform(fmt.Sprintf("c_%d", i)))
		}
	})

	if !strings.Contains(output, "warning: transform") || !strings.Contains(output, "children") {
		t.Errorf("expected child count warning in stderr, got: %q", output)
	}
}

func TestDebugMode_StepLogsCounters(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	n := NewTransform("n")
	s.Root().AddChild(n)

	resetWork()
	output := captureStderr(t, func() {
		if err := s.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	})

	for _, want := range []string{"update:", "physics:", "resolve:", "recomputes: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("stderr missing %q: %q", want, output)
		}
	}
}

func TestDebugMode_ConstructLogs(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	root := NewTransform("rig")
	lockedChild(root, "bone", Vec3{0, 1, 0})
	output := captureStderr(t, func() { root.ConstructJointHierarchy() })

	if !strings.Contains(output, `joint hierarchy "rig" built with 2 joints`) {
		t.Errorf("unexpected stderr: %q", output)
	}
}

// ---- Tree dump -------------------------------------------------------------

func TestDumpTree(t *testing.T) {
	scene := NewTransform("scene")
	hips := NewTransform("hips")
	hips.SetLocalOrigin(Vec3{0, 1, 0})
	scene.AddChild(hips)
	spine := lockedChild(hips, "spine", Vec3{0, 1, 0})
	head := lockedChild(spine, "head", Vec3{0, 0.5, 0})
	hat := NewTransform("hat")
	hat.SetLocalOrigin(Vec3{0, 0.25, 0})
	head.AddChild(hat)
	prop := NewTransform("prop")
	prop.SetLocalOrigin(Vec3{1, 0, 0})
	hips.AddChild(prop)

	panel := NewRectTransform("panel")
	panel.SetLocalOrigin(Vec3{-2, 0, 0})
	scene.AddChild(panel)
	body := NewTransform("body")
	body.SetPhysicsKind(PhysicsRigidBody)
	body.SetLocalOrigin(Vec3{0, -1, 0})
	scene.AddChild(body)
	wheel := NewTransform("wheel")
	wheel.SetPhysicsKind(PhysicsVehicleWheel)
	wheel.SetLocalOrigin(Vec3{-0.0001, 0, 0})
	body.AddChild(wheel)

	if !hips.ConstructJointHierarchy() {
		t.Fatal("ConstructJointHierarchy failed")
	}

	var buf bytes.Buffer
	if err := scene.DumpTree(&buf); err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t)
	g.Assert(t, "dump_tree", buf.Bytes())
}

func TestFormatVec3FoldsNegativeZero(t *testing.T) {
	got := formatVec3(Vec3{-0.0001, 1.23456, -2})
	if got != "0.000 1.235 -2.000" {
		t.Errorf("formatVec3 = %q", got)
	}
}
