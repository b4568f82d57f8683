package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/mitchellh/go-homedir"

	"github.com/cbegin/visynth-go"
	"github.com/cbegin/visynth-go/internal/legacy"
	"github.com/cbegin/visynth-go/internal/modmatrix"
	"github.com/cbegin/visynth-go/internal/preset"
	"github.com/cbegin/visynth-go/internal/quality"
	"github.com/cbegin/visynth-go/internal/registry"
	"github.com/cbegin/visynth-go/internal/screen"
	"github.com/cbegin/visynth-go/internal/sequencer"
	"github.com/cbegin/visynth-go/internal/store"
)

const (
	windowW = 1100
	windowH = 720

	quickPattern = "quick"
)

var overlayBg = color.RGBA{0, 0, 0, 150}

type app struct {
	engine   *visynth.Engine
	patterns *sequencer.Bank
	stats    visynth.Stats
	status   string
	hideHUD  bool
}

func main() {
	var (
		dir      = flag.String("dir", "~/.visynth", "storage directory")
		cpu      = flag.Bool("cpu", false, "skip the GPU renderer")
		verbose  = flag.Bool("v", false, "log to stderr")
		seedPath = flag.String("legacy", "", "legacy mood seed JSON applied on first start")
	)
	flag.Parse()

	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		gg.SetLogger(logger)
	}

	path, err := homedir.Expand(*dir)
	if err != nil {
		log.Fatal(err)
	}
	kv, err := store.NewDir(path)
	if err != nil {
		log.Fatal(err)
	}
	presets := preset.NewBank(kv, logger)

	host := screen.NewHost(windowW, windowH)
	a := &app{patterns: sequencer.NewBank(kv, logger)}

	opts := []visynth.Option{
		visynth.WithScheduler(host.Loop),
		visynth.WithLogger(logger),
		visynth.WithStats(func(s visynth.Stats) { a.stats = s }),
	}
	if *cpu {
		opts = append(opts, visynth.WithBackends(visynth.CPUBackend))
	}
	a.engine, err = visynth.New(host.Surface, registry.NewDefault(), modmatrix.New(), sequencer.New(), opts...)
	if err != nil {
		log.Fatal(err)
	}
	defer a.engine.Destroy()

	seed, err := loadSeed(*seedPath)
	if err != nil {
		log.Fatal(err)
	}
	if restored, err := a.engine.RestoreSession(presets, seed); err != nil {
		logger.Warn("session not restored", "err", err)
	} else if restored {
		a.status = "session restored"
	}

	host.OnUpdate = a.update
	host.Overlay = a.draw
	if err := a.engine.Start(); err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("visynth")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(host); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
	if err := a.engine.SaveSession(presets); err != nil {
		log.Printf("save session: %v", err)
	}
}

// loadSeed reads a legacy seed file. Without a path there is no seed and a
// first start keeps the catalogue defaults.
func loadSeed(path string) (*legacy.Seed, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seed := legacy.DefaultSeed()
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("legacy seed %s: %w", path, err)
	}
	return &seed, nil
}

func (a *app) update() error {
	seq := a.engine.Sequencer()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		seq.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		next := (a.engine.Quality() + 1) % (quality.Low + 1)
		a.engine.SetQuality(next)
		a.status = "quality " + next.String()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		st := a.engine.State()
		st.Ribbon.Frozen = !st.Ribbon.Frozen
		a.engine.SetState(st)
		a.status = fmt.Sprintf("ribbon frozen: %v", st.Ribbon.Frozen)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if seq.RandomizeLane("lane-1") {
			a.status = "lane-1 randomized"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := a.patterns.Save(quickPattern, seq); err != nil {
			a.status = "save failed: " + err.Error()
		} else {
			a.status = "pattern saved"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		if a.patterns.Load(quickPattern, seq) {
			a.status = "pattern loaded"
		} else {
			a.status = "no saved pattern"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		a.hideHUD = !a.hideHUD
	}
	return nil
}

func (a *app) draw(dst *ebiten.Image) {
	if a.hideHUD {
		return
	}
	s := a.stats
	seq := a.engine.Sequencer()
	play := "paused"
	if seq.Playing() {
		play = "playing"
	}
	text := fmt.Sprintf("%5.1f fps  %s  %s  nodes %d\nstep %2d/%d  %s  %.0f bpm\n%s\n\n[space] play  [q] quality  [f] freeze  [r] randomize  [s/l] save/load  [h] hide",
		s.FPS, s.Renderer, s.Quality, s.ActiveNodes,
		s.Step+1, seq.StepLength(), play, seq.BPM(),
		a.status)
	ebitenutil.DrawRect(dst, 8, 8, 560, 92, overlayBg)
	ebitenutil.DebugPrintAt(dst, text, 16, 14)
}
