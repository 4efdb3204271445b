package editor

// Kind names a discrete input the session reacts to. Key bindings live in the
// TUI; the session only sees intents.
type Kind int

const (
	None Kind = iota
	EnterCommand
	EnterInsert
	EnterAdjust
	NextClip
	PreviousClip
	DeleteCurrentClip
	YankCurrentClip
	Paste
	Undo
	Redo
	Char
	Backspace
	Exit
	Submit
	NextWord
	PreviousWord
	Cancel
	Confirm
	Quit
	PlayClip
	PlayFromHere
	NudgeStartBack
	NudgeStartForward
	NudgeEndBack
	NudgeEndForward
	SwapWithNext
)

var kindNames = [...]string{
	None:              "none",
	EnterCommand:      "enter-command",
	EnterInsert:       "enter-insert",
	EnterAdjust:       "enter-adjust",
	NextClip:          "next-clip",
	PreviousClip:      "previous-clip",
	DeleteCurrentClip: "delete",
	YankCurrentClip:   "yank",
	Paste:             "paste",
	Undo:              "undo",
	Redo:              "redo",
	Char:              "char",
	Backspace:         "backspace",
	Exit:              "exit",
	Submit:            "submit",
	NextWord:          "next-word",
	PreviousWord:      "previous-word",
	Cancel:            "cancel",
	Confirm:           "confirm",
	Quit:              "quit",
	PlayClip:          "play-clip",
	PlayFromHere:      "play-from-here",
	NudgeStartBack:    "nudge-start-back",
	NudgeStartForward: "nudge-start-forward",
	NudgeEndBack:      "nudge-end-back",
	NudgeEndForward:   "nudge-end-forward",
	SwapWithNext:      "swap-with-next",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Intent is one input event. Rune is set for Char.
type Intent struct {
	Kind Kind
	Rune rune
}

// Do returns a payload-free intent.
func Do(k Kind) Intent { return Intent{Kind: k} }

// Type returns a Char intent for r.
func Type(r rune) Intent { return Intent{Kind: Char, Rune: r} }
