// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package serve is a subcommand of the root command. It exposes target
// resolution over HTTP for build farms that share one registry instance,
// with Prometheus counters on the resolution outcomes.
package serve

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/common"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/fingerprint"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/registry"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/report"
)

const cmdName = "serve"

var examples = []string{
	fmt.Sprintf("  Serve the built-in registry:     $ %s %s --listen :8080", common.AppName, cmdName),
	fmt.Sprintf("  Serve with custom targets:       $ %s %s --listen :8080 --custom mytarget.json", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Serve target resolution over HTTP",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagListen string
	flagCustom []string
)

const (
	flagListenName = "listen"
	flagCustomName = "custom"
)

var resolutionsCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dputarget_resolutions_total",
		Help: "DPU target resolutions by outcome",
	},
	[]string{"outcome"},
)

func init() {
	Cmd.Flags().StringVar(&flagListen, flagListenName, "localhost:8080", "address to listen on")
	Cmd.Flags().StringSliceVar(&flagCustom, flagCustomName, nil, "custom target descriptor file(s) to register")
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)
	reg, err := common.LoadRegistry(flagCustom)
	if err != nil {
		slog.Error("failed to load registry", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	prometheus.MustRegister(resolutionsCounter)
	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", resolveHandler(reg))
	mux.HandleFunc("/targets", targetsHandler(reg))
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              flagListen,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	// graceful shutdown on SIGINT/SIGTERM
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChannel
		slog.Info("received signal, shutting down", slog.String("signal", sig.String()))
		if err := server.Close(); err != nil {
			slog.Error("error closing server", slog.String("error", err.Error()))
		}
	}()
	slog.Info("Starting registry server", slog.String("version", appContext.Version), slog.String("address", flagListen), slog.Int("targets", reg.Len()))
	fmt.Printf("Serving %d DPU targets on %s\n", reg.Len(), flagListen)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("HTTP server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

type resolveResponse struct {
	Name         string   `json:"name"`
	Fingerprint  string   `json:"fingerprint"`
	Architecture string   `json:"architecture"`
	Version      uint8    `json:"version"`
	Cores        uint8    `json:"cores"`
	Clock        string   `json:"clock"`
	Features     []string `json:"features"`
	Exact        bool     `json:"exact"`
}

func resolveHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arg := r.URL.Query().Get("fingerprint")
		if arg == "" {
			http.Error(w, "missing fingerprint query parameter", http.StatusBadRequest)
			return
		}
		raw, err := fingerprint.Parse(arg)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid fingerprint: %v", err), http.StatusBadRequest)
			return
		}
		d, err := reg.Resolve(raw)
		if err != nil {
			resolutionsCounter.WithLabelValues("miss").Inc()
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		exact := d.Fingerprint == raw
		if exact {
			resolutionsCounter.WithLabelValues("exact").Inc()
		} else {
			resolutionsCounter.WithLabelValues("compatible").Inc()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resolveResponse{
			Name:         d.Name,
			Fingerprint:  fmt.Sprintf("0x%016x", d.Fingerprint),
			Architecture: d.Key.ArchFamily().String(),
			Version:      d.Key.Version,
			Cores:        d.Key.Cores,
			Clock:        d.Key.FreqClass().String(),
			Features:     d.Key.Features.Names(),
			Exact:        exact,
		})
	}
}

func targetsHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := report.RenderJSON(reg)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(out)
	}
}
