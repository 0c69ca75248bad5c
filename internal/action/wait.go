package action

import (
	"time"

	"github.com/mj1618/desktop-scenarios/internal/vars"
)

func wait(data map[string]any, _ vars.Vars, rc *Context) bool {
	if rc.Cancelled() {
		return false
	}
	seconds, err := FloatParam(data, "seconds", 1.0)
	if err != nil || seconds < 0 {
		return rc.Fail("Invalid number of seconds provided for 'Wait': %v", data["seconds"])
	}
	rc.log().Info("waiting", "seconds", seconds)
	return rc.Sleep(time.Duration(seconds * float64(time.Second)))
}
