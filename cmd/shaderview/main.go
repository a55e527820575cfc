// Command shaderview renders a test card through a Kage shader read from disk
// so the screen pass can be tuned without rebuilding the game. Up and Down
// change the glitch intensity, R reloads the file.
package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

type Game struct {
	path    string
	logger  *zap.Logger
	shader  *ebiten.Shader
	card    *ebiten.Image
	glitch  float64
	frames  int
	lastErr error
}

func NewGame(path string, logger *zap.Logger) *Game {
	g := &Game{path: path, logger: logger, glitch: 0.2, card: testCard()}
	g.reload()
	return g
}

func (g *Game) reload() {
	src, err := os.ReadFile(g.path)
	if err == nil {
		var s *ebiten.Shader
		if s, err = ebiten.NewShader(src); err == nil {
			g.shader = s
		}
	}
	g.lastErr = err
	if err != nil {
		g.logger.Warn("shader load failed", zap.String("path", g.path), zap.Error(err))
		return
	}
	g.logger.Info("shader loaded", zap.String("path", g.path))
}

// testCard draws color bars and a grid so channel splits and band shifts are
// easy to see.
func testCard() *ebiten.Image {
	img := ebiten.NewImage(common.BaseWidth, common.BaseHeight)
	img.Fill(color.Black)
	bars := []color.Color{colornames.White, colornames.Yellow, colornames.Aqua, colornames.Lime, colornames.Magenta, colornames.Red, colornames.Blue}
	bw := float32(common.BaseWidth) / float32(len(bars))
	for i, c := range bars {
		vector.FillRect(img, float32(i)*bw, 0, bw, common.BaseHeight/2, c, false)
	}
	for x := 0; x <= common.BaseWidth; x += 40 {
		vector.StrokeLine(img, float32(x), common.BaseHeight/2, float32(x), common.BaseHeight, 1, colornames.Aqua, false)
	}
	for y := common.BaseHeight / 2; y <= common.BaseHeight; y += 40 {
		vector.StrokeLine(img, 0, float32(y), common.BaseWidth, float32(y), 1, colornames.Aqua, false)
	}
	return img
}

func (g *Game) Update() error {
	g.frames++
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload()
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		g.glitch = common.Clamp(g.glitch+0.01, 0, 1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		g.glitch = common.Clamp(g.glitch-0.01, 0, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.shader == nil {
		screen.DrawImage(g.card, nil)
	} else {
		op := &ebiten.DrawRectShaderOptions{}
		op.Images[0] = g.card
		op.Uniforms = map[string]any{
			"Time":   float32(g.frames) / common.TPS,
			"Glitch": float32(g.glitch),
		}
		screen.DrawRectShader(common.BaseWidth, common.BaseHeight, g.shader, op)
	}
	status := fmt.Sprintf("%s  glitch %.2f  (up/down, R reload)", g.path, g.glitch)
	if g.lastErr != nil {
		status += "\n" + g.lastErr.Error()
	}
	ebitenutil.DebugPrint(screen, status)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

func main() {
	var path string
	var debug bool
	cmd := &cobra.Command{
		Use:          "shaderview",
		Short:        "Preview the screen glitch shader",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("", debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
			ebiten.SetWindowTitle("shaderview")
			if err := ebiten.RunGame(NewGame(path, logger)); err != nil && err != ebiten.Termination {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "shader", "shaders/glitch.kage", "Kage source to preview")
	cmd.Flags().BoolVar(&debug, "debug", false, "verbose logging")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
