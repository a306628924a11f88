package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zeusync/chainshot/internal/arena"
	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/events/bus"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/spawn"
	"github.com/zeusync/chainshot/internal/injector"
	"github.com/zeusync/chainshot/pkg/concurrent"
)

type options struct {
	configPath string
	levels     []spawn.Level
	parallel   int
	fps        int
	maxFrames  int
	hold       time.Duration
	logLevel   string
	logFormat  string
}

func parseFlags(args []string) (options, error) {
	var (
		o      options
		levels string
	)
	fs := flag.NewFlagSet("chainsim", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "gameplay config file (.yaml, .yml or .json)")
	fs.StringVar(&levels, "levels", "level-1", "comma separated level names, one arena each")
	fs.IntVar(&o.parallel, "parallel", 0, "max arenas simulated at once (0 = all)")
	fs.IntVar(&o.fps, "fps", 60, "simulation frames per second")
	fs.IntVar(&o.maxFrames, "frames", 60*120, "frame budget per arena")
	fs.DurationVar(&o.hold, "hold", 400*time.Millisecond, "how long each shot is charged")
	fs.StringVar(&o.logLevel, "log-level", "", "overrides the config log level")
	fs.StringVar(&o.logFormat, "log-format", "json", "json or console")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	for _, name := range strings.Split(levels, ",") {
		if name = strings.TrimSpace(name); name != "" {
			o.levels = append(o.levels, spawn.Level(name))
		}
	}
	if len(o.levels) == 0 {
		return o, errors.New("no levels given")
	}
	if o.logFormat != "json" && o.logFormat != "console" {
		return o, fmt.Errorf("unknown log format %q", o.logFormat)
	}
	if o.fps <= 0 {
		return o, fmt.Errorf("fps must be > 0, got %d", o.fps)
	}
	return o, nil
}

func loadConfig(path string) (*config.Gameplay, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "chainsim:", err)
		os.Exit(2)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "chainsim:", err)
		os.Exit(1)
	}
	levelName := cfg.LogLevel
	if opts.logLevel != "" {
		levelName = opts.logLevel
	}
	logger, err := log.NewWithOptions(log.Options{
		Level:   log.ParseLevel(levelName),
		Console: opts.logFormat == "console",
		Sample:  true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "chainsim:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := concurrent.Map(ctx, opts.levels, opts.parallel, func(ctx context.Context, lvl spawn.Level) (Result, error) {
		return simulate(ctx, cfg, logger, lvl, opts)
	})
	if err != nil {
		logger.Error("simulation failed", log.Error(err))
		os.Exit(1)
	}
	for _, r := range results {
		logger.Info("arena finished",
			log.String("level", string(r.Level)),
			log.Int("spawned", r.Spawned),
			log.Int("shots", r.Shots),
			log.Int("hits", r.Hits),
			log.Uint64("exploded", r.Exploded),
			log.Float64("player_radius", r.PlayerRadius),
			log.Bool("dead", r.Dead),
			log.Uint64("frames", r.Frames),
			log.Any("events", r.Events),
		)
	}
}

// Result is the outcome of one scripted arena run.
type Result struct {
	Level        spawn.Level
	Spawned      int
	Shots        int
	Hits         int
	Exploded     uint64
	PlayerRadius float64
	Dead         bool
	Frames       uint64
	// Events counts published events by type.
	Events map[string]int
}

// simulate plays one level: aim at the nearest obstacle, charge for opts.hold,
// release, wait for the shot to resolve, repeat until the player dies, the
// field is cleared or the frame budget runs out.
func simulate(ctx context.Context, cfg *config.Gameplay, logger log.Log, lvl spawn.Level, opts options) (Result, error) {
	aim := &nearestObstacle{}
	a, err := injector.InitializeArena(cfg, logger.With(log.String("run", string(lvl))), aim, lvl)
	if err != nil {
		return Result{}, fmt.Errorf("init arena %q: %w", lvl, err)
	}
	defer a.Close()
	aim.arena = a

	res := Result{Level: lvl, Events: make(map[string]int)}
	if _, err := a.Bus().Subscribe(bus.AnyEvent, func(e bus.Event) error {
		res.Events[e.Type()]++
		return nil
	}); err != nil {
		return Result{}, err
	}
	res.Spawned = a.Spawn()
	dt := 1 / float64(opts.fps)
	holdFrames := max(1, int(opts.hold.Seconds()*float64(opts.fps)))

	var snap arena.Snapshot
	for frame := 0; frame < opts.maxFrames; {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		snap = a.Snapshot()
		if snap.Dead || snap.Obstacles == 0 {
			break
		}
		if snap.Projectiles > 0 {
			snap = a.Step(dt, arena.Input{})
			frame++
			continue
		}

		a.Step(dt, arena.Input{Pressed: true})
		for i := 0; i < holdFrames; i++ {
			a.Step(dt, arena.Input{Held: true})
		}
		snap = a.Step(dt, arena.Input{Released: true})
		frame += holdFrames + 2
		res.Shots++
	}

	res.Hits = snap.Hits
	res.Exploded = snap.Exploded
	res.PlayerRadius = snap.PlayerRadius
	res.Dead = snap.Dead
	res.Frames = snap.Frame
	return res, nil
}
