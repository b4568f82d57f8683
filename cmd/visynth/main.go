package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"
	"github.com/mitchellh/go-homedir"

	"github.com/cbegin/visynth-go"
	"github.com/cbegin/visynth-go/internal/modmatrix"
	"github.com/cbegin/visynth-go/internal/preset"
	"github.com/cbegin/visynth-go/internal/quality"
	"github.com/cbegin/visynth-go/internal/registry"
	"github.com/cbegin/visynth-go/internal/rng"
	"github.com/cbegin/visynth-go/internal/sequencer"
	"github.com/cbegin/visynth-go/internal/store"
)

const usage = `usage: visynth [-dir path] [-v] <command> [args]

commands:
  still -o out.png [-w 640] [-h 360] [-frames 120] [-quality high] [-preset name]
  patterns list
  patterns show <name>
  patterns set <name> <lane> <steps>   e.g. "[x...]4" or "x.5?50."
  presets list
  presets export [-o file]
  presets import <file>
  targets`

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle = lipgloss.NewStyle().Width(12).Align(lipgloss.Left)
	onStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

func main() {
	var (
		dir     = flag.String("dir", "~/.visynth", "storage directory")
		verbose = flag.Bool("v", false, "log to stderr")
	)
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		gg.SetLogger(logger)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	kv, err := openStore(*dir)
	if err != nil {
		log.Fatal(err)
	}
	patterns := sequencer.NewBank(kv, logger)
	presets := preset.NewBank(kv, logger)

	switch args[0] {
	case "still":
		err = runStill(args[1:], presets, logger)
	case "patterns":
		err = runPatterns(args[1:], patterns)
	case "presets":
		err = runPresets(args[1:], presets)
	case "targets":
		fmt.Print(renderTargets(registry.NewDefault()))
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		log.Fatal(err)
	}
}

func openStore(dir string) (*store.Dir, error) {
	path, err := homedir.Expand(dir)
	if err != nil {
		return nil, err
	}
	return store.NewDir(path)
}

func runStill(args []string, presets *preset.Bank, logger *slog.Logger) error {
	fs := flag.NewFlagSet("still", flag.ExitOnError)
	def := visynth.DefaultStillOptions()
	var (
		out        = fs.String("o", "visynth.png", "output PNG path")
		width      = fs.Int("w", def.Width, "image width")
		height     = fs.Int("h", def.Height, "image height")
		frames     = fs.Int("frames", def.Frames, "frames to simulate before capture")
		fps        = fs.Float64("fps", def.FPS, "simulated frame rate")
		tierName   = fs.String("quality", "high", "quality tier: high|medium|low")
		presetName = fs.String("preset", "", "render a saved preset instead of the defaults")
		seed       = fs.Uint("seed", 1, "random seed for sequencer gates and the random oscillator")
	)
	fs.Parse(args)

	tier, ok := quality.ParseTier(*tierName)
	if !ok {
		return fmt.Errorf("invalid -quality %q (expected high|medium|low)", *tierName)
	}
	reg := registry.NewDefault()
	mat := modmatrix.New()
	seq := sequencer.NewWithOptions(sequencer.Options{Rand: rng.New(uint32(*seed)).Float64})
	state := visynth.DefaultState()

	if *presetName != "" {
		snap, ok := presets.Load(*presetName)
		if !ok {
			return fmt.Errorf("no preset named %q", *presetName)
		}
		for id, v := range snap.BaseValues {
			reg.SetBaseValue(id, v)
		}
		mat.Set(snap.Routes)
		if snap.Pattern != nil {
			seq.Apply(*snap.Pattern)
		}
		st, err := visynth.SnapshotState(snap)
		if err != nil {
			return err
		}
		state = st
	}
	seq.Play()

	img, err := visynth.RenderStill(reg, mat, seq, visynth.StillOptions{
		Width:   *width,
		Height:  *height,
		Frames:  *frames,
		FPS:     *fps,
		Quality: tier,
		State:   &state,
		Seed:    uint32(*seed),
	})
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	logger.Info("still written", "path", *out, "width", *width, "height", *height)
	return f.Close()
}

func runPatterns(args []string, bank *sequencer.Bank) error {
	if len(args) == 0 {
		return errors.New("patterns: expected list or show")
	}
	switch args[0] {
	case "list":
		names := bank.List()
		if len(names) == 0 {
			fmt.Println(mutedStyle.Render("no saved patterns"))
			return nil
		}
		for _, name := range names {
			p, _ := bank.Get(name)
			fmt.Printf("%-20s %3.0f bpm  %2d steps  %d lanes\n", name, p.BPM, p.StepLength, len(p.Lanes))
		}
		return nil
	case "show":
		if len(args) < 2 {
			return errors.New("patterns show: missing name")
		}
		p, ok := bank.Get(args[1])
		if !ok {
			return fmt.Errorf("no pattern named %q", args[1])
		}
		fmt.Print(renderPattern(args[1], p))
		return nil
	case "set":
		if len(args) < 4 {
			return errors.New("patterns set: expected <name> <lane> <steps>")
		}
		steps, err := sequencer.ParseSteps(args[3])
		if err != nil {
			return err
		}
		seq := sequencer.New()
		if p, ok := bank.Get(args[1]); ok && !seq.Apply(p) {
			return fmt.Errorf("pattern %q cannot be applied", args[1])
		}
		if !seq.SetLaneSteps(args[2], steps) {
			return fmt.Errorf("no lane %q", args[2])
		}
		if err := bank.Save(args[1], seq); err != nil {
			return err
		}
		l, _ := seq.Lane(args[2])
		fmt.Printf("%s %s: %s\n", args[1], args[2], sequencer.FormatSteps(l.Steps))
		return nil
	}
	return fmt.Errorf("patterns: unknown subcommand %q", args[0])
}

func renderPattern(name string, p sequencer.Pattern) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(name) + "\n")
	b.WriteString(fmt.Sprintf("BPM %.0f  swing %.0f%%  %d steps\n\n", p.BPM, p.Swing, p.StepLength))
	for _, l := range p.Lanes {
		label := l.Label
		if l.Mute {
			label += " (m)"
		} else if l.Solo {
			label += " (s)"
		}
		b.WriteString(labelStyle.Render(label))
		for _, st := range l.Steps {
			switch {
			case !st.Enabled:
				b.WriteString(offStyle.Render("·"))
			case st.Probability < 1:
				b.WriteString(onStyle.Render("○"))
			default:
				b.WriteString(onStyle.Render("●"))
			}
		}
		target := string(l.Target)
		if target == "" {
			target = "unrouted"
		}
		b.WriteString("  " + mutedStyle.Render(fmt.Sprintf("%s x%.2f", target, l.Amount)) + "\n")
	}
	return b.String()
}

// renderTargets lists every modulation target grouped by module.
func renderTargets(reg *registry.Registry) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d targets", reg.Len())) + "\n")
	for _, m := range reg.Modules() {
		b.WriteString("\n" + labelStyle.Render(m) + "\n")
		for _, t := range reg.ByModule(m) {
			base, _ := reg.BaseValue(t.ID)
			b.WriteString(fmt.Sprintf("  %-28s %-14s ", t.ID, t.Label))
			b.WriteString(mutedStyle.Render(fmt.Sprintf("[%g, %g] %s", t.Min, t.Max, t.Curve)))
			b.WriteString(fmt.Sprintf("  %g\n", base))
		}
	}
	return b.String()
}

func runPresets(args []string, bank *preset.Bank) error {
	if len(args) == 0 {
		return errors.New("presets: expected list, export or import")
	}
	switch args[0] {
	case "list":
		for _, name := range bank.List() {
			s, _ := bank.Load(name)
			fmt.Printf("%-20s %s  %d routes\n", name, s.SavedAt.Local().Format("2006-01-02 15:04"), len(s.Routes))
		}
		return nil
	case "export":
		fs := flag.NewFlagSet("presets export", flag.ExitOnError)
		out := fs.String("o", "", "output file (default stdout)")
		fs.Parse(args[1:])
		data, err := bank.Export()
		if err != nil {
			return err
		}
		if *out == "" {
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(*out, data, 0o644)
	case "import":
		if len(args) < 2 {
			return errors.New("presets import: missing file")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		n, err := bank.Import(data)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d presets\n", n)
		return nil
	}
	return fmt.Errorf("presets: unknown subcommand %q", args[0])
}
