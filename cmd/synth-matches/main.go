package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/crease/internal/synth"
	"github.com/okian/crease/pkg/logger"
)

func main() {
	def := synth.DefaultConfig()
	var (
		dir      = flag.String("out", "data", "Directory to write match files into")
		matches  = flag.Int("matches", def.Matches, "Number of fixtures to generate")
		teams    = flag.String("teams", strings.Join(def.Teams, ","), "Comma-separated team names")
		venues   = flag.String("venues", strings.Join(def.Venues, ";"), "Semicolon-separated venue names")
		event    = flag.String("event", def.Event, "Event name")
		season   = flag.String("season", def.Season, "Season label")
		start    = flag.String("start", def.Start.Format(time.DateOnly), "Date of the first fixture (YYYY-MM-DD)")
		seed     = flag.Uint64("seed", def.Seed, "Random seed; equal seeds give equal files")
		spinners = flag.Int("spinners", def.Spinners, "Spin bowlers per squad")
		format   = flag.String("log-format", "text", "Log format: text or json")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logger.Get()

	first, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		log.Error(ctx, "invalid start date", logger.String("start", *start), logger.Error(err))
		os.Exit(2)
	}
	cfg := synth.Config{
		Matches:  *matches,
		Teams:    split(*teams, ","),
		Venues:   split(*venues, ";"),
		Event:    *event,
		Season:   *season,
		Start:    first,
		Seed:     *seed,
		Spinners: *spinners,
	}
	if _, err := synth.WriteDir(ctx, *dir, cfg); err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "spinners to configure", logger.Strings("spinners", synth.Spinners(synth.Squads(cfg))))
}

func split(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
