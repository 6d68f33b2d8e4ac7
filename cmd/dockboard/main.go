package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dockboard/internal/api"
	"dockboard/pkg/audio"
	"dockboard/pkg/config"
	"dockboard/pkg/db"
	"dockboard/pkg/feed"
	"dockboard/pkg/ledger"
	"dockboard/pkg/logging"
	"dockboard/pkg/model"
	"dockboard/pkg/playback"
	"dockboard/pkg/request"
	"dockboard/pkg/store"
	"dockboard/pkg/tracker"
	"dockboard/pkg/tts"
	"dockboard/pkg/tts/edgetts"
	"dockboard/pkg/version"
)

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault("configs/dockboard.yaml"); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: configs/dockboard.yaml")
		return
	}

	if err := run(context.Background(), "configs/dockboard.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Optional .env with the Edge TTS endpoint parameters
	_ = godotenv.Load()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("Dockboard Started", "version", version.Version)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()
	st := store.NewSQLiteStore(dbConn)

	tr := tracker.New()
	reqClient := request.New(tr)

	// Playback ledger
	led := ledger.New(ctx, st)
	if err := led.Prune(ctx); err != nil {
		slog.Warn("Ledger prune at startup failed", "error", err)
	}

	// Audio output, with persisted volume restored
	audioMgr := audio.New()
	audioMgr.SetVolume(appCfg.Audio.Volume)
	if val, ok := st.GetState(ctx, api.VolumeStateKey); ok {
		if vol, err := strconv.ParseFloat(val, 64); err == nil {
			audioMgr.SetVolume(vol)
		}
	}
	defer audioMgr.Shutdown()

	// Speech synthesis
	ttsProv, err := buildProvider(appCfg, tr)
	if err != nil {
		return err
	}
	speaker := tts.NewSpeaker(ttsProv, audioMgr, st, tr, appCfg.TTS.WorkDir)
	chime := audio.NewChimePlayer(audioMgr, appCfg.Audio.ChimeStart, appCfg.Audio.ChimeEnd)

	// Announcement queue and engine
	queue := playback.NewQueue(time.Duration(appCfg.Playback.CollectionWindow), led.Satisfied)
	engine := playback.NewEngine(queue, chime, speaker, led, tr, time.Duration(appCfg.Playback.StageTimeout))
	engine.Start(ctx)

	// Feed drivers
	boards := feed.NewBoards()
	schedSrc := feed.NewHTTPScheduleSource(reqClient, appCfg.Sources.ScheduleURL)
	cfgSrc := feed.NewHTTPConfigSource(reqClient, appCfg.Sources.ConfigURL)
	defaultSpeech := model.SpeechOptions{Voice: appCfg.TTS.EdgeTTS.VoiceID}

	drivers := make([]*feed.Driver, 0, len(appCfg.Feeds))
	for _, fc := range appCfg.Feeds {
		d := feed.NewDriver(fc.ID, fc.Side, schedSrc, cfgSrc, boards, queue, led,
			time.Duration(appCfg.Sources.PollFallback), defaultSpeech)
		d.UseState(ctx, st)
		d.Start(ctx)
		drivers = append(drivers, d)
	}

	// Periodic ledger prune and cache sweep
	go maintenanceLoop(ctx, appCfg, led, dbConn)

	// Server
	boardH := api.NewBoardHandler(boards, engine, queue)
	cfgH := api.NewConfigHandler(appCfg)
	statsH := api.NewStatsHandler(tr, led)
	audioH := api.NewAudioHandler(audioMgr, st)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	srv := api.NewServer(appCfg.Server.Address, boardH, cfgH, statsH, audioH, cancel)
	srv.Handler = loggingMiddleware(srv.Handler)

	err = runServerLifecycle(ctx, srv, quit)

	// Stop feed loops and drain the engine before closing the store
	cancel()
	for _, d := range drivers {
		d.Wait()
	}
	engine.Wait()

	return err
}

func buildProvider(cfg *config.Config, tr *tracker.Tracker) (tts.Provider, error) {
	switch cfg.TTS.Engine {
	case "", "edge-tts":
		return edgetts.NewProvider(tr), nil
	default:
		return nil, fmt.Errorf("unknown tts engine: %s", cfg.TTS.Engine)
	}
}

// maintenanceLoop prunes expired ledger records and old cache rows.
func maintenanceLoop(ctx context.Context, cfg *config.Config, led *ledger.Ledger, dbConn *db.DB) {
	interval := time.Duration(cfg.Ledger.PruneInterval)
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := led.Prune(ctx); err != nil {
				slog.Warn("Ledger prune failed", "error", err)
			}
			if err := dbConn.PruneCache(7 * 24 * time.Hour); err != nil {
				slog.Warn("Cache prune failed", "error", err)
			}
		}
	}
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
