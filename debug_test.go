package dynatlas

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

// ---- Debug mode tests ------------------------------------------------------

// captureLog redirects the standard logger for the duration of fn.
func captureLog(fn func()) string {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestDebugMode_StaleTextureLogged(t *testing.T) {
	a := newTestAtlas(32)
	a.SetDebugMode(true)
	tex, _ := a.Allocate(4, 4)
	tex.Release()

	output := captureLog(func() {
		tex.Fill(ColorWhite)
	})
	if !strings.Contains(output, "Fill on released texture") {
		t.Errorf("expected stale warning, got: %q", output)
	}
	if !strings.Contains(output, "goroutine") {
		t.Error("stale warning should include a stack trace")
	}
}

func TestDebugMode_OutOfBoundsLogged(t *testing.T) {
	a := newTestAtlas(32)
	a.SetDebugMode(true)
	tex, _ := a.Allocate(4, 4)

	output := captureLog(func() {
		tex.SetPixel(9, 2, red)
	})
	if !strings.Contains(output, "SetPixel(9, 2) outside 4x4 texture") {
		t.Errorf("expected out-of-bounds warning, got: %q", output)
	}
}

func TestDebugMode_OffIsSilent(t *testing.T) {
	a := newTestAtlas(32)
	tex, _ := a.Allocate(4, 4)
	tex.Release()

	output := captureLog(func() {
		tex.Fill(ColorWhite)
		tex.SetPixel(9, 2, red)
	})
	if output != "" {
		t.Errorf("expected no output outside debug mode, got: %q", output)
	}
}

func TestDebugMode_DefragStatsPrinted(t *testing.T) {
	a := newTestAtlas(64)
	a.SetDebugMode(true)
	a.defrag.now = steppingClock(time.Nanosecond)
	left, _ := a.Allocate(16, 16)
	right, _ := a.Allocate(16, 16)
	// Keeps the page from collapsing to one free rect on release.
	if _, err := a.Allocate(8, 8); err != nil {
		t.Fatal(err)
	}
	left.Release()
	right.Release()

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	a.RunDefragmentation()

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if !strings.Contains(output, "[dynatlas] frame 1 defrag:") {
		t.Errorf("expected defrag stats on stderr, got: %q", output)
	}
}

func TestDebugMode_GrowthPrinted(t *testing.T) {
	a := newTestAtlas(16)
	a.SetDebugMode(true)

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	_, err := a.Allocate(20, 20)

	w.Close()
	os.Stderr = oldStderr

	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	buf.ReadFrom(r)
	if output := buf.String(); !strings.Contains(output, "[dynatlas] grew to 64x64") {
		t.Errorf("expected growth report, got: %q", output)
	}
}
