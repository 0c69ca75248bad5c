package action

import (
	"time"

	"github.com/mj1618/desktop-scenarios/internal/platform"
	"github.com/mj1618/desktop-scenarios/internal/vars"
)

const (
	highlightDisplay     = 1500 * time.Millisecond
	defaultClickTimeout  = 60 * time.Second
	highlightClickSettle = time.Second
)

// highlightRectangle frames a screen region with an optional message. With
// wait_for_click it blocks until the user clicks inside the frame, then
// clicks the frame center once the overlay is gone.
func highlightRectangle(data map[string]any, _ vars.Vars, rc *Context) bool {
	if rc.Cancelled() {
		return false
	}
	coords := MapParam(data, "coordinates")
	x1, y1, err := PairParam(coords, "start", 0, 0)
	if err != nil {
		return rc.Fail("Error executing 'Highlight Rectangle': %v", err)
	}
	x2, y2, err := PairParam(coords, "end", 100, 100)
	if err != nil {
		return rc.Fail("Error executing 'Highlight Rectangle': %v", err)
	}
	rect := platform.RectFromCorners(x1, y1, x2, y2)
	if rect.Empty() {
		rc.log().Warn("highlight rectangle has zero size, skipping", "rect", rect)
		return true
	}
	if rc.Overlay == nil {
		return rc.Fail("Error executing 'Highlight Rectangle': overlay not available")
	}
	style := Style{
		Color:     StringParam(data, "color", "green"),
		Thickness: IntParam(data, "thickness", 3),
	}
	h, err := rc.Overlay.Show(rect, style, StringParam(data, "message", ""))
	if err != nil {
		return rc.Fail("Error executing 'Highlight Rectangle': %v", err)
	}
	defer h.Close()

	if !BoolParam(data, "wait_for_click", false) {
		return rc.Sleep(highlightDisplay)
	}

	timeout := defaultClickTimeout
	if secs, err := FloatParam(data, "timeout", 0); err == nil && secs > 0 {
		timeout = time.Duration(secs * float64(time.Second))
	}
	deadline := time.Now().Add(timeout)
	for {
		if rc.Cancelled() {
			return false
		}
		if h.WaitForClickWithin(PollInterval) {
			break
		}
		if time.Now().After(deadline) {
			return rc.Fail("Highlight Rectangle: no click inside the highlighted area within %s", timeout)
		}
	}

	_ = h.Close()
	if !rc.Sleep(highlightClickSettle) {
		return false
	}
	in, err := rc.Inputter()
	if err != nil {
		return rc.Fail("Error executing 'Highlight Rectangle': %v", err)
	}
	cx, cy := rect.Center()
	if err := in.Click(cx, cy, platform.MouseLeft, 1); err != nil {
		return rc.Fail("Error executing 'Highlight Rectangle': %v", err)
	}
	rc.log().Info("highlight confirmed, clicked center", "x", cx, "y", cy)
	return !rc.Cancelled()
}
