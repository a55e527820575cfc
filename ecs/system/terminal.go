package system

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
)

const SoundTransmit = "transmit"

// TerminalSystem edits the contact form from the frame's input. Enter on the
// last field, with every field filled, transmits the message.
type TerminalSystem struct{}

func NewTerminalSystem() *TerminalSystem {
	return &TerminalSystem{}
}

// Submission is the payload of a submit event.
type Submission struct {
	Name    string
	Email   string
	Message string
}

func (s *TerminalSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	inputEnt, ok := ecs.First(w, component.InputComponent.Kind())
	if !ok {
		return
	}
	input, _ := ecs.Get(w, inputEnt, component.InputComponent.Kind())

	ecs.ForEach(w, component.TerminalComponent.Kind(), func(e ecs.Entity, term *component.Terminal) {
		term.Frames++
		if len(term.Fields) == 0 {
			return
		}
		term.Focus = clampFocus(term.Focus, len(term.Fields))
		field := &term.Fields[term.Focus]

		typed := string(input.Chars) + input.Paste
		if typed != "" {
			term.Error = ""
			term.Sent = false
			field.Value = appendPrintable(field.Value, typed, term.MaxChars)
		}
		if input.Backspace && field.Value != "" {
			r := []rune(field.Value)
			field.Value = string(r[:len(r)-1])
		}
		if input.Tab {
			term.Focus = (term.Focus + 1) % len(term.Fields)
		}
		if !input.Enter {
			return
		}
		if term.Focus < len(term.Fields)-1 {
			term.Focus++
			return
		}

		sub, err := submission(term.Fields)
		if err != "" {
			term.Error = err
			return
		}
		for i := range term.Fields {
			term.Fields[i].Value = ""
		}
		term.Focus = 0
		term.Sent = true
		w.Events().Push(ecs.Event{Type: ecs.EventSubmit, Entity: e, Data: sub})
		PlaySound(w, SoundTransmit)
	})
}

// submission validates the form. Fields are matched by label so prefab
// order does not matter.
func submission(fields []component.TerminalField) (Submission, string) {
	var sub Submission
	for _, f := range fields {
		v := strings.TrimSpace(f.Value)
		if v == "" {
			return Submission{}, f.Label + " REQUIRED"
		}
		switch f.Label {
		case "NAME":
			sub.Name = v
		case "EMAIL":
			if _, err := mail.ParseAddress(v); err != nil {
				return Submission{}, "INVALID EMAIL"
			}
			sub.Email = v
		case "MESSAGE":
			sub.Message = v
		}
	}
	return sub, ""
}

func appendPrintable(cur, typed string, max int) string {
	var b strings.Builder
	b.WriteString(cur)
	n := len([]rune(cur))
	for _, r := range typed {
		if max > 0 && n >= max {
			break
		}
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		if !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func clampFocus(focus, n int) int {
	if focus < 0 || focus >= n {
		return 0
	}
	return focus
}
