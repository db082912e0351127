package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MindsetIO/log-stream/internal/config"
	"github.com/MindsetIO/log-stream/internal/dashboard"
	"github.com/MindsetIO/log-stream/internal/faillog"
	"github.com/MindsetIO/log-stream/internal/geo"
	"github.com/MindsetIO/log-stream/internal/metrics"
	"github.com/MindsetIO/log-stream/internal/pipeline"
	"github.com/MindsetIO/log-stream/internal/rate"
	"github.com/MindsetIO/log-stream/internal/transmit"
	"github.com/MindsetIO/log-stream/internal/types"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runCommand(os.Args[2:])
	case "check":
		checkCommand(os.Args[2:])
	case "version":
		fmt.Printf("log-stream %s\n", version)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: logstream <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  run       Start monitoring the configured sources")
	fmt.Println("  check     Validate the configuration and exit")
	fmt.Println("  version   Print the version")
}

func runCommand(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "/etc/log-stream/config.yml", "Path to config file")
	fs.Parse(args)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("Starting log-stream %s...\n", version)
	for _, src := range cfg.Sources {
		fmt.Printf("Monitoring: %s (%s)\n", src.Path, src.Type)
	}

	failures := faillog.NewLogger(cfg.Output.FailureLogPath)

	enricher, err := buildEnricher(cfg)
	if err != nil {
		log.Printf("[GEO] Disabled: %v", err)
		enricher = nil
	}
	if enricher != nil {
		defer enricher.Close()
	}

	rates := rate.NewSet(cfg.Window())
	poster := transmit.NewPoster(cfg.API.URL, cfg.API.APIKey)

	var sink pipeline.Sink
	if cfg.Dashboard.Enabled {
		store := dashboard.NewStore(cfg.Dashboard.TableLen)
		sink = store.Add

		server, err := dashboard.NewServer(store, rates, cfg.Dashboard.Port)
		if err != nil {
			log.Fatalf("Failed to build dashboard: %v", err)
		}
		go func() {
			if err := server.Start(); err != nil {
				log.Printf("[DASHBOARD] Failed to start: %v", err)
			}
		}()
	}

	if cfg.Metrics.Enabled {
		go func() {
			log.Printf("[METRICS] Starting on %s", cfg.Metrics.Port)
			if err := metrics.StartServer(cfg.Metrics.Port); err != nil {
				log.Printf("[METRICS] Failed to start: %v", err)
			}
		}()
	}

	// One pipeline per source. A source that fails to start halts alone;
	// the rest keep running.
	var wg sync.WaitGroup
	var pipelines []*pipeline.Pipeline
	for _, src := range cfg.Sources {
		p, err := pipeline.New(src, enricher, rates, poster, failures, sink)
		if err != nil {
			log.Printf("[PIPELINE] Skipping source: %v", err)
			continue
		}
		pipelines = append(pipelines, p)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Run(); err != nil {
				log.Printf("[PIPELINE] %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigChan {
		if sig == syscall.SIGHUP {
			log.Println("[CONFIG] SIGHUP received, reloading configuration...")
			newCfg, err := config.LoadConfig(*configPath)
			if err != nil {
				log.Printf("[ERROR] Failed to reload config: %v", err)
				continue
			}
			// Sources and geo backends need restarted tailers and handles;
			// only the transmitter settings swap live.
			poster.UpdateConfig(newCfg.API.URL, newCfg.API.APIKey)
			log.Println("[CONFIG] Reload successful")
		} else {
			fmt.Println("\nShutting down...")
			break
		}
	}

	for _, p := range pipelines {
		p.Stop()
	}
	wg.Wait()
	fmt.Println("Shutdown complete.")
}

// buildEnricher assembles the lookup chain from config: local database when
// one is given, remote lookup otherwise, with the sqlite cache wrapped
// around either when enabled.
func buildEnricher(cfg *types.Config) (geo.Enricher, error) {
	var inner geo.Enricher
	switch {
	case cfg.Geo.DBPath != "":
		db, err := geo.NewDBEnricher(cfg.Geo.DBPath)
		if err != nil {
			return nil, err
		}
		inner = db
	case cfg.Geo.HTTPURL != "":
		inner = geo.NewHTTPEnricher(cfg.Geo.HTTPURL)
	default:
		return nil, fmt.Errorf("no geo backend configured")
	}

	if cfg.Geo.CachePath == "" {
		return inner, nil
	}

	cached, err := geo.NewCachedEnricher(inner, cfg.Geo.CachePath)
	if err != nil {
		inner.Close()
		return nil, err
	}
	return cached, nil
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "/etc/log-stream/config.yml", "Path to config file")
	fs.Parse(args)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Config invalid: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Config OK: %d sources, window %s\n", len(cfg.Sources), cfg.Window())
	for _, src := range cfg.Sources {
		fmt.Printf("  %-12s %s (%d patterns)\n", src.Type, src.Path, len(src.Patterns))
	}
}
