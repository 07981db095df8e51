package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"timelinecal/internal/config"
	appLog "timelinecal/internal/log"
)

// flagConfig holds CLI flag values that override the config file.
type flagConfig struct {
	configPath string
	out        string
	watch      bool
	ics        string
	rtl        bool
	slotWidth  float64
	clip       bool
}

func main() {
	appLog.Info("timelinecal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applyFlags(conf, flags)
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Info("effective config",
		"timezone", conf.Timezone,
		"slot_duration", conf.SlotDuration,
		"label_interval", conf.LabelInterval,
		"slot_width", conf.SlotWidth,
		"rtl", conf.RTL,
		"measure", conf.Measure,
		"ics_count", len(conf.ICS),
		"output", conf.Output,
		"watch", flags.watch,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	p := &pipeline{conf: conf, clip: flags.clip}
	if err := p.run(ctx, time.Now()); err != nil {
		appLog.Error("render failed", err, "output", conf.Output)
		if !flags.watch {
			os.Exit(1)
		}
	}
	if !flags.watch {
		appLog.Info("timelinecal exiting")
		return
	}

	if err := watch(ctx, p); err != nil {
		appLog.Error("watch failed", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	appLog.Info("timelinecal exiting")
}

// watch re-renders on the refresh schedule until ctx is canceled, so the
// now indicator and any edited ICS files are picked up.
func watch(ctx context.Context, p *pipeline) error {
	loc, err := p.conf.Location()
	if err != nil {
		return err
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(p.conf.RefreshCron, func() {
		if err := p.run(ctx, time.Now()); err != nil {
			appLog.Error("scheduled render failed", err)
		}
	}); err != nil {
		return err
	}
	c.Start()
	appLog.Info("watch mode started", "refresh", p.conf.RefreshCron)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "timelinecal.yaml", "Path to config file")
	flag.StringVar(&cfg.out, "out", "", "SVG output path (overrides config if set)")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running and re-render on the refresh schedule")
	flag.StringVar(&cfg.ics, "ics", "", "Comma-separated extra ICS files")
	flag.BoolVar(&cfg.rtl, "rtl", false, "Lay the timeline out right-to-left")
	flag.Float64Var(&cfg.slotWidth, "slot-width", 0, "Fixed slot width in pixels (overrides config if set)")
	flag.BoolVar(&cfg.clip, "clip", false, "Render only the viewport, scrolled to now")

	flag.Parse()

	return cfg
}

func applyFlags(conf *config.Config, f flagConfig) {
	if f.out != "" {
		conf.Output = f.out
	}
	if f.rtl {
		conf.RTL = true
	}
	if f.slotWidth > 0 {
		conf.SlotWidth = f.slotWidth
	}
	for _, path := range strings.Split(f.ics, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		conf.ICS = append(conf.ICS, config.ICSConfig{Path: path})
	}
	conf.Normalize()
}
