// Package plugins pulls every built-in plugin into the build. Adding a
// plugin is one blank import here; its init registers the factory.
package plugins

import (
	_ "atombot/plugins/dialog"
	_ "atombot/plugins/greet"
	_ "atombot/plugins/hostinfo"
	_ "atombot/plugins/roll"
)
