package app

import (
	"github.com/ashutoshmjain/avim/internal/editor"

	tea "github.com/charmbracelet/bubbletea"
)

// Key binding constants used in handleKey.
const (
	KeyQuit     = "q"
	KeyCtrlC    = "ctrl+c"
	KeySpace    = " "
	KeyEnter    = "enter"
	KeyEsc      = "esc"
	KeyRedo     = "ctrl+r"
	KeyCommand  = ":"
	KeyInsert   = "i"
	KeyAdjust   = "m"
	KeyPlayAll  = "P"
	KeySwap     = "s"
	KeyNextWord = "w"
	KeyPrevWord = "b"
)

// normalKeys binds Normal-mode keys to intents.
var normalKeys = map[string]editor.Kind{
	KeyCommand: editor.EnterCommand,
	KeyInsert:  editor.EnterInsert,
	KeyAdjust:  editor.EnterAdjust,
	KeyQuit:    editor.Quit,
	"j":        editor.NextClip,
	"down":     editor.NextClip,
	"k":        editor.PreviousClip,
	"up":       editor.PreviousClip,
	"d":        editor.DeleteCurrentClip,
	"y":        editor.YankCurrentClip,
	"p":        editor.Paste,
	"u":        editor.Undo,
	KeyRedo:    editor.Redo,
	KeySpace:   editor.PlayClip,
	KeyPlayAll: editor.PlayFromHere,
	"[":        editor.NudgeStartBack,
	"]":        editor.NudgeStartForward,
	"{":        editor.NudgeEndBack,
	"}":        editor.NudgeEndForward,
	KeySwap:    editor.SwapWithNext,
}

// adjustKeys binds Adjust-mode keys to intents.
var adjustKeys = map[string]editor.Kind{
	KeyNextWord: editor.NextWord,
	KeyPrevWord: editor.PreviousWord,
	KeyEnter:    editor.Confirm,
	KeyEsc:      editor.Cancel,
}

// intentsFor translates a key press into intents for the session's current
// state and mode. Unbound Normal-mode keys yield editor.None so they still
// cancel a pending chord.
func intentsFor(s *editor.Session, msg tea.KeyMsg) []editor.Intent {
	key := msg.String()
	if key == KeyCtrlC {
		return []editor.Intent{editor.Do(editor.Quit)}
	}
	if s.State() != editor.StateReady {
		if key == KeyQuit {
			return []editor.Intent{editor.Do(editor.Quit)}
		}
		return nil
	}

	switch s.Mode() {
	case editor.ModeNormal:
		if k, ok := normalKeys[key]; ok {
			return []editor.Intent{editor.Do(k)}
		}
		return []editor.Intent{editor.Do(editor.None)}
	case editor.ModeAdjust:
		if k, ok := adjustKeys[key]; ok {
			return []editor.Intent{editor.Do(k)}
		}
	case editor.ModeInsert, editor.ModeCommand:
		switch msg.Type {
		case tea.KeyEsc:
			return []editor.Intent{editor.Do(editor.Exit)}
		case tea.KeyBackspace:
			return []editor.Intent{editor.Do(editor.Backspace)}
		case tea.KeyEnter:
			if s.Mode() == editor.ModeCommand {
				return []editor.Intent{editor.Do(editor.Submit)}
			}
		case tea.KeySpace:
			return []editor.Intent{editor.Type(' ')}
		case tea.KeyRunes:
			out := make([]editor.Intent, 0, len(msg.Runes))
			for _, r := range msg.Runes {
				out = append(out, editor.Type(r))
			}
			return out
		}
	case editor.ModeVisual:
		if msg.Type == tea.KeyEsc {
			return []editor.Intent{editor.Do(editor.Exit)}
		}
	}
	return nil
}
