package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/contactkeval/gamma-scalper/internal/config"
	"github.com/contactkeval/gamma-scalper/internal/data"
	"github.com/contactkeval/gamma-scalper/internal/logger"
	"github.com/contactkeval/gamma-scalper/internal/metrics"
	"github.com/contactkeval/gamma-scalper/internal/report"
	"github.com/contactkeval/gamma-scalper/internal/runner"
	"github.com/contactkeval/gamma-scalper/internal/scalper"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	rest := flag.Bool("rest", false, "run as REST server (accept simulation jobs)")
	port := flag.String("port", ":8080", "REST server listen address")
	flag.Parse()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}
	logger.SetVerbosity(cfg.Verbosity)

	prov := buildProvider(cfg)

	if *rest {
		serve(cfg, prov, *port)
		return
	}

	start := time.Now()
	res, err := simulate(cfg, prov)
	if err != nil {
		logger.Errorf("simulation failed: %v", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		logger.Errorf("could not create report dir %s: %v", cfg.ReportDir, err)
		os.Exit(1)
	}
	if err := report.WriteJSON(res, cfg.ReportDir); err != nil {
		logger.Errorf("write json report: %v", err)
	}
	if err := report.WriteCSV(res, cfg.ReportDir); err != nil {
		logger.Errorf("write csv report: %v", err)
	}
	logger.Infof("finished in %v, wrote %d snapshots to %s",
		time.Since(start), len(res.Snapshots), cfg.ReportDir)
}

// buildProvider chains the configured data sources: CSV first, then the
// remote feed, with the synthetic generator as the last resort.
func buildProvider(cfg *config.Config) data.RowProvider {
	rule := data.ExpiryRule(cfg.ExpiryRule)
	prov := data.NewSyntheticProvider(cfg.Seed, 100.0, 0.5, rule)
	if cfg.RemoteURL != "" {
		prov = data.NewRemoteRowProvider(cfg.RemoteURL, cfg.APIKey, prov)
	}
	if cfg.DataCSV != "" {
		prov = data.NewLocalCSVProvider(cfg.DataCSV, rule, prov)
	}
	return prov
}

// simulate runs one full simulation with a fresh engine. An engine drives
// exactly one run, so REST requests never share one.
func simulate(cfg *config.Config, prov data.RowProvider) (*runner.Result, error) {
	startDate, endDate, err := cfg.Window()
	if err != nil {
		return nil, err
	}
	eng, err := scalper.New(cfg.InitialCapital, cfg.HedgeFreqDays)
	if err != nil {
		return nil, err
	}
	run, err := runner.New(eng, prov, cfg.ExitExpression)
	if err != nil {
		return nil, err
	}
	return run.Run(startDate, endDate)
}

func serve(cfg *config.Config, prov data.RowProvider, port string) {
	r := mux.NewRouter()
	r.HandleFunc("/run", func(w http.ResponseWriter, req *http.Request) {
		logger.Infof("received /run request")
		res, err := simulate(cfg, prov)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}).Methods(http.MethodPost)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	logger.Infof("starting REST server on %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		logger.Errorf("server: %v", err)
		os.Exit(1)
	}
}
