package sapling

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

const defaultScreenshotDir = "screenshots"

// Screenshot queues a capture of the debug view, taken at the end of the
// next Draw. Each capture writes two files to ScreenshotDir, named after the
// frame number and label:
//
//	<frame>_<label>.png  the rendered skeleton view
//	<frame>_<label>.txt  the frame's work counters and the resolved tree
//
// Safe to call from the update func.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// flushScreenshots writes every queued capture. Called at the end of
// Scene.Draw, when every world matrix in the tree is resolved.
func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		debugLogf("screenshot: %v", errors.Wrapf(err, "mkdir %s", s.ScreenshotDir))
		return
	}

	img := framePixels(screen)
	for _, label := range s.screenshotQueue {
		base := filepath.Join(s.ScreenshotDir, captureName(s.frame, label))
		if err := writePNG(base+".png", img); err != nil {
			debugLogf("screenshot: %v", err)
		}
		if err := s.writeCaptureReport(base+".txt", label); err != nil {
			debugLogf("screenshot: %v", err)
		}
	}
}

// framePixels copies the screen into an image. ebiten hands back
// premultiplied RGBA, which is exactly image.RGBA's layout.
func framePixels(screen *ebiten.Image) *image.RGBA {
	img := image.NewRGBA(screen.Bounds())
	screen.ReadPixels(img.Pix)
	return img
}

// writeCaptureReport writes the text half of a capture.
func (s *Scene) writeCaptureReport(path, label string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := s.captureReport(f, label); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}

// captureReport writes the frame header, the last frame's work counters and
// a dump of the whole tree.
func (s *Scene) captureReport(w io.Writer, label string) error {
	work := s.lastWork
	if _, err := fmt.Fprintf(w, "frame %d %q\ninvalidations=%d recomputes=%d joint_passes=%d\n\n",
		s.frame, label, work.Invalidations, work.Recomputes, work.JointPasses); err != nil {
		return err
	}
	return s.root.DumpTree(w)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}

// captureName builds the file stem for a capture: the zero-padded frame
// number and the label with anything outside [A-Za-z0-9.-] replaced by '_'.
func captureName(frame uint64, label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "unlabeled"
	}
	label = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
	return fmt.Sprintf("%06d_%s", frame, label)
}
