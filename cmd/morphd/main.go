// Command morphd is the real-time face-morphing server: it loads
// configuration, wires the morph engine to a websocket-fronted frame
// handler, and serves frames at up to the caller's frame rate.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"facemorph/config"
	"facemorph/internal/morph"
	"facemorph/internal/transport"
	"facemorph/logger"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	fmt.Println("================================================================================")
	fmt.Println("🚀 morphd face-morphing server")
	fmt.Println("================================================================================")

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("❌ failed to load config: %v", err)
	}
	log.Printf("✅ configuration loaded from %s", *cfgPath)
	log.Printf("   addr: %s", cfg.Server.Addr)
	log.Printf("   jpeg quality: %d, default alpha: %.2f", cfg.Engine.JPEGQuality, cfg.Engine.DefaultAlpha)

	var bufferedLog *logger.BufferedLogger
	if cfg.Logging.BufferedLogging {
		flushPeriod := time.Duration(cfg.Logging.FlushIntervalMs) * time.Millisecond
		minLevel := logger.ParseLevel(cfg.Logging.Level)
		bufferedLog = logger.New(minLevel, cfg.Logging.AutoFlush, cfg.Logging.SampleRate, flushPeriod)
		defer bufferedLog.Stop()
		log.Printf("✅ buffered call logging enabled (level=%s, sample_rate=%d, auto_flush=%v)",
			minLevel, cfg.Logging.SampleRate, cfg.Logging.AutoFlush)
	}

	engine := morph.New(bufferedLog, morph.Config{
		HullBlurRadii:       cfg.Engine.HullBlurRadii,
		MouthAntiAliasRadii: cfg.Engine.MouthBlurRadii,
		IsAnimalDefault:     cfg.Engine.IsAnimalDefault,
	})
	srv := transport.New(engine, cfg)

	mux := http.NewServeMux()
	mux.Handle("/morph", srv)

	fmt.Printf("\n🌐 morphd listening on %s\n", cfg.Server.Addr)
	fmt.Println("   Protocol: WebSocket, JSON frames (base64 JPEG in/out)")
	fmt.Println("\n✅ ready to accept connections!")
	fmt.Println("================================================================================")

	if err := http.ListenAndServe(cfg.Server.Addr, mux); err != nil {
		log.Fatalf("❌ failed to serve: %v", err)
	}
}
