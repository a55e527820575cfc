package system

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/logging"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

type InputSystem struct {
	logger    *zap.Logger
	clipOnce  sync.Once
	clipReady bool
	chars     []rune
}

func NewInputSystem(logger *zap.Logger) *InputSystem {
	return &InputSystem{logger: logging.OrNop(logger)}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	x, y := ebiten.CursorPosition()
	i.chars = ebiten.AppendInputChars(i.chars[:0])

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	paste := ""
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		paste = i.readClipboard()
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		input.PointerX = float64(x)
		input.PointerY = float64(y)
		input.Click = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
		input.Chars = append(input.Chars[:0], i.chars...)
		input.Paste = paste
		input.Backspace = repeating(ebiten.KeyBackspace)
		input.Tab = inpututil.IsKeyJustPressed(ebiten.KeyTab)
		input.Enter = inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter)
	})
}

// readClipboard initializes the clipboard on first use. A platform without
// clipboard support only loses paste.
func (i *InputSystem) readClipboard() string {
	i.clipOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			i.logger.Warn("clipboard unavailable", zap.Error(err))
			return
		}
		i.clipReady = true
	})
	if !i.clipReady {
		return ""
	}
	return string(clipboard.Read(clipboard.FmtText))
}

// repeating fires on press and then every few frames while held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= 30 && d%4 == 0
}
