// promptimprove runs the prompt-improvement HTTP API: it wires the
// complexity/intent/strategy pipeline, the NLaC+OPRO backend, and
// Postgres-backed metrics storage behind an Echo server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nlacforge/promptimprove/pkg/api"
	"github.com/nlacforge/promptimprove/pkg/catalog"
	"github.com/nlacforge/promptimprove/pkg/config"
	"github.com/nlacforge/promptimprove/pkg/knn"
	"github.com/nlacforge/promptimprove/pkg/llmclient"
	"github.com/nlacforge/promptimprove/pkg/metrics"
	"github.com/nlacforge/promptimprove/pkg/metricsstore"
	"github.com/nlacforge/promptimprove/pkg/nlac"
	"github.com/nlacforge/promptimprove/pkg/optimizer"
	"github.com/nlacforge/promptimprove/pkg/strategy"
	"github.com/nlacforge/promptimprove/pkg/validator"
	"github.com/nlacforge/promptimprove/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	} else {
		slog.Info("loaded environment file", "path", envPath)
	}

	slog.Info("starting promptimprove", "version", version.Full(), "config_dir", *configDir)

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	dbConfig, err := metricsstore.LoadConfigFromEnv()
	if err != nil {
		slog.Error("failed to load metrics database config", "error", err)
		os.Exit(1)
	}

	metricsClient, err := metricsstore.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("failed to connect to metrics database", "error", err)
		os.Exit(1)
	}
	defer metricsClient.Close()
	slog.Info("connected to metrics database")

	metricsRepo := metricsstore.NewPostgresRepository(metricsClient)

	catalogRepo := catalog.NewFileSystemRepository(cfg.Catalog.Path)
	knnResult := knn.NewProvider(catalogRepo, cfg.Pipeline.KNNDefaultK)
	knnProvider, knnOK := knnResult.Value()
	if !knnOK {
		knnErr, _ := knnResult.Error()
		slog.Warn("KNN provider unavailable, retrieval-backed strategies will degrade", "error", knnErr.Error())
		knnProvider = nil
	} else if flags := knnResult.DegradationFlags(); flags["catalog_quality_degraded"] {
		slog.Warn("KNN provider initialized with a degraded catalog", "flags", flags)
	}

	llmClient := llmclient.LLMClient(llmclient.Deterministic{})

	threshold := validator.LoadCalibratedThreshold(cfg.Calibration.Path)
	if t := cfg.ValidatorThreshold(); t != nil {
		threshold = *t
	}
	val := validator.New(threshold, nil)

	simple := strategy.NewSimpleStrategy(0, llmClient)
	moderate := strategy.NewModerateStrategy(0, llmClient)
	var complexStrategy *strategy.ComplexStrategy
	if knnProvider != nil {
		complexStrategy = strategy.NewComplexStrategy(0, llmClient, knnProvider, cfg.Pipeline.KNNDefaultK)
	}
	legacySelector, _ := strategy.NewLegacySelector(simple, moderate, complexStrategy).Value()

	builder := nlac.NewBuilder(knnProvider)
	opt := optimizer.New(llmClient, knnProvider)
	nlacStrategy := nlac.NewStrategy(builder, opt)
	nlacSelector, _ := strategy.NewNLaCSelector(nlacStrategy, knnProvider == nil).Value()

	evaluator := metrics.NewEvaluator()
	analyzer := metrics.NewAnalyzer()

	server := api.NewServer(cfg, legacySelector, nlacSelector, val, evaluator, analyzer, metricsRepo, llmClient)

	addr := cfg.Server.Host + ":" + getEnv("HTTP_PORT", strconv.Itoa(cfg.Server.Port))
	slog.Info("HTTP server listening", "addr", addr)

	go func() {
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
