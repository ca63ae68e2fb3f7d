package main

import (
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"ccfront/lib"
	"ccfront/pkg/compiler"
	"ccfront/pkg/config"
	"ccfront/pkg/logs"
	"ccfront/pkg/utils"
)

const (
	screenWidth  = 640
	screenHeight = 480
	lineHeight   = 16
	margin       = 8
)

var (
	background = color.RGBA{0x0F, 0x17, 0x2A, 0xFF}
	foreground = color.RGBA{0xE2, 0xE8, 0xF0, 0xFF}
	errorColor = color.RGBA{0xEF, 0x44, 0x44, 0xFF}
)

// Viewer shows the syntax tree of one file and reloads it on request.
type Viewer struct {
	path   string
	cfg    *config.Config
	logger *slog.Logger
	face   text.Face

	lines  []string
	failed bool
	scroll int
}

func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.reload()
	}

	delta := 0
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		delta++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		delta--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		delta += visibleLines(screenHeight)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		delta -= visibleLines(screenHeight)
	}
	_, wheel := ebiten.Wheel()
	delta -= int(wheel * 3)

	v.scroll = clampScroll(v.scroll+delta, len(v.lines), visibleLines(screenHeight))
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	fg := foreground
	if v.failed {
		fg = errorColor
	}
	start, end := visibleRange(v.scroll, len(v.lines), visibleLines(screenHeight))
	for i, line := range v.lines[start:end] {
		op := &text.DrawOptions{}
		op.GeoM.Translate(margin, float64(margin+i*lineHeight))
		op.ColorScale.ScaleWithColor(fg)
		text.Draw(screen, line, v.face, op)
	}
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// reload compiles the file again. A failure replaces the tree with the error.
func (v *Viewer) reload() {
	lines, err := load(v.path, v.cfg, v.logger)
	if err != nil {
		v.logger.Warn("reload failed", "file", v.path, "error", err)
		v.lines, v.failed = strings.Split(err.Error(), "\n"), true
		return
	}
	v.logger.Info("reloaded", "file", v.path, "lines", len(lines))
	v.lines, v.failed = lines, false
	v.scroll = clampScroll(v.scroll, len(v.lines), visibleLines(screenHeight))
}

// load compiles path and returns its dump, one line per element.
func load(path string, cfg *config.Config, logger *slog.Logger) ([]string, error) {
	src, err := utils.ReadSource(path)
	if err != nil {
		return nil, err
	}
	opts := compiler.Options{
		Preprocess: cfg.Frontend.Preprocess,
		Includes: compiler.Includes{
			FS:     os.DirFS(src.Dir),
			Dir:    ".",
			System: lib.Headers(),
		},
		Logger: logger,
	}
	if cfg.Frontend.Check {
		opts.Check = &compiler.CheckOptions{
			RequireMain: cfg.Frontend.RequireMain,
			Builtins:    cfg.Frontend.Builtins,
		}
	}
	prog, err := compiler.Compile(src.Text, opts)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSuffix(compiler.Dump(prog), "\n"), "\n"), nil
}

func visibleLines(height int) int {
	return (height - 2*margin) / lineHeight
}

// clampScroll keeps the first shown line within the document.
func clampScroll(scroll, total, visible int) int {
	maxScroll := total - visible
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}

func visibleRange(scroll, total, visible int) (int, int) {
	start := clampScroll(scroll, total, visible)
	return start, min(start+visible, total)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: desktop FILE")
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, closeLog, err := logs.New(cfg.Log, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	viewer := &Viewer{
		path:   os.Args[1],
		cfg:    cfg,
		logger: logger,
		face:   text.NewGoXFace(basicfont.Face7x13),
	}
	viewer.reload()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("ccfront - " + os.Args[1])

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
