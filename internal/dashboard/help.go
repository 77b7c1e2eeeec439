package dashboard

import "github.com/charmbracelet/bubbles/help"

// HelpBindings returns the key map shown in the help bar for the given mode.
func HelpBindings(mode Mode) help.KeyMap {
	if mode == ModeDetail {
		return DetailKeyMap()
	}
	return ListKeyMap()
}
