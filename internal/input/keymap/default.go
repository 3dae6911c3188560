package keymap

// Defaults returns the bindings every application starts with. The commands
// call helpers the application registers with its interpreter.
func Defaults() []Binding {
	return []Binding{
		{Object: "all", Sequence: "<Control-q>", Command: "quit()"},
		{Object: "all", Sequence: "<Tab>", Command: "focus_next()"},
		{Object: "all", Sequence: "<Key-BackTab>", Command: "focus_prev()"},
		{Object: "all", Sequence: "<Control-l>", Command: "redraw()"},
		{Object: "all", Sequence: "<Escape><Escape>", Command: "quit()"},
		{Object: "all", Sequence: "<1>", Command: "focus(%W)"},
		{Object: "all", Sequence: "<Barcode>", Command: "log(%A)"},
	}
}
