package main

import (
	_ "embed"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shaders/glitch.kage
var glitchShaderSrc []byte

func loadGlitchShader() (*ebiten.Shader, error) {
	s, err := ebiten.NewShader(glitchShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("shader: glitch: %w", err)
	}
	return s, nil
}
