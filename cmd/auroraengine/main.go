// Command auroraengine wires every package of the engine together into one
// process: audio capture, the node evaluator, the network store, the
// layer runtime, history, persistence, and the devkit introspection
// endpoints. Flag layout and CLI-subcommand dispatch follow the teacher's
// server/main.go and server/cli.go.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"auroraengine/audioframe"
	"auroraengine/devkit/httpapi"
	"auroraengine/devkit/livefeed"
	"auroraengine/errs"
	"auroraengine/evaluator"
	"auroraengine/history"
	"auroraengine/layer"
	"auroraengine/network"
	"auroraengine/node/kinds"
	"auroraengine/param"
	"auroraengine/persist"
	"auroraengine/persist/sqlitecache"
	"auroraengine/preset"
)

// Version is the version string logged at startup.
const Version = "0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		if RunCLI(os.Args[1:], "auroraengine-project.json") {
			return
		}
	}

	projectPath := flag.String("project", "auroraengine-project.json", "project file path")
	cachePath := flag.String("cache", "auroraengine-cache.db", "sqlite autosave cache path")
	apiAddr := flag.String("api-addr", ":8090", "devkit HTTP introspection listen address (empty to disable)")
	sampleRate := flag.Int("sample-rate", audioframe.DefaultSampleRate, "audio input sample rate")
	fftSize := flag.Int("fft-size", audioframe.DefaultFFTSize, "FFT window size")
	flag.Parse()

	warn := func(w errs.Warning) {
		log.Printf("[warn] %s: %v", w.Context, w.Err)
	}

	registry := kinds.NewRegistry()
	networks := network.NewStore(registry, warn)
	eval := evaluator.New(registry, warn)
	params := param.NewStore(networks, eval)
	components := layer.NewComponentRegistry()
	presets := preset.NewLibrary()
	hist := history.NewService(warn)

	adapter := persist.NewJSONFileAdapter(*projectPath, warn)
	proj, err := adapter.Load()
	if err != nil {
		log.Fatalf("[project] %v", err)
	}
	runtime := persist.Rehydrate(proj, components, registry, networks, params, warn)

	cache, err := sqlitecache.Open(*cachePath)
	if err != nil {
		log.Fatalf("[cache] %v", err)
	}
	defer cache.Close()

	var analyzer audioframe.Analyzer
	if pa, err := audioframe.NewPortAudioAnalyzer(*sampleRate, *fftSize); err != nil {
		log.Printf("[audio] analyzer unavailable, falling back to silence: %v", err)
	} else {
		analyzer = pa
		defer pa.Close()
	}

	const renderFPS = 60.0
	clock := audioframe.NewFrameClock(renderFPS)
	source := audioframe.NewLiveSource(analyzer, clock)
	source.OnWarning(func(kind, msg string) {
		errs.Emit(warn, errs.AnalyzerUnavailable, kind+": "+msg)
	})

	feedHub := livefeed.NewHub()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *apiAddr != "" {
		apiSrv := httpapi.New(runtime, params, hist)
		go apiSrv.Run(ctx, *apiAddr)
		log.Printf("[devkit] http introspection listening on %s", *apiAddr)
	}

	log.Printf("auroraengine %s starting, project=%s", Version, *projectPath)

	tickInterval := time.Second / time.Duration(renderFPS)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	clock.SetPlaying(true)
	start := time.Now()

	const autosaveEvery = 5 * time.Second
	nextAutosave := start.Add(autosaveEvery)

	for {
		select {
		case <-ctx.Done():
			log.Printf("shutting down")
			finalProj := persist.Capture(runtime, networks)
			if err := adapter.Save(finalProj); err != nil {
				log.Printf("[project] save on exit failed: %v", err)
			}
			return
		case now := <-ticker.C:
			clock.Tick()
			frame := source.Acquire()
			runtime.Tick(frame, now.Sub(start).Seconds(), !clock.IsPlaying(), nil)
			if err := feedHub.PublishLiveValues(params.LiveValues()); err != nil {
				log.Printf("[livefeed] publish failed: %v", err)
			}
			if now.After(nextAutosave) {
				nextAutosave = now.Add(autosaveEvery)
				if err := cache.SaveSnapshot(ctx, *projectPath, persist.Capture(runtime, networks)); err != nil {
					log.Printf("[cache] autosave failed: %v", err)
				}
			}
			_ = presets // the preset library is constructed but not used by the run loop
		}
	}
}
