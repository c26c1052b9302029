package tui

// Keybinding constants
const (
	KeyQuit     = "q"
	KeyCtrlC    = "ctrl+c"
	KeyEsc      = "esc"
	KeyAdd      = "a"
	KeyComplete = "c"
	KeyNext     = "n"
	KeyOrder    = "o"
	KeyPlan     = "p"
	KeyRefresh  = "r"
	KeyUp       = "up"
	KeyDown     = "down"
	KeyJ        = "j"
	KeyK        = "k"
)

// HelpView returns a one-line help bar with common keybindings.
func HelpView() string {
	return StyleHelp.Render("a: add | c: complete | n: next | o: order | p: plan | j/k: scroll | q: quit")
}

// FormHelpView is shown while a form is open.
func FormHelpView() string {
	return StyleHelp.Render("enter: next field / submit | shift+tab: back | esc: cancel")
}
