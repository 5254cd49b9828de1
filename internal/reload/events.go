// Package reload is the live-reload engine: it parses successive versions of
// a sketch, diffs them structurally, decides between an incremental patch and
// a full reset, and applies the outcome to the live interpreter environment.
package reload

// eventNames is the closed set of event blocks the render loop knows how to
// invoke. A top-level call outside this set is an ordinary command, not an
// event registration.
var eventNames = map[string]bool{
	"setup":          true,
	"update":         true,
	"draw":           true,
	"exit":           true,
	"key_down":       true,
	"key_up":         true,
	"mouse_down":     true,
	"mouse_up":       true,
	"mouse_moved":    true,
	"mouse_dragged":  true,
	"window_resized": true,
}

// SetupEvent is the initialization event. Any edit that touches it forces a
// full reset, because setup is assumed to establish the state everything else
// depends on.
const SetupEvent = "setup"

// IsEvent reports whether name is a recognized event block name.
func IsEvent(name string) bool { return eventNames[name] }

// EventNames returns the recognized event names (for handler registration).
func EventNames() []string {
	out := make([]string, 0, len(eventNames))
	for name := range eventNames {
		out = append(out, name)
	}
	return out
}
