package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cvp-getconfig/internal/config"
	"cvp-getconfig/internal/exporter"
	"cvp-getconfig/internal/logging"
)

var (
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// program implements the kardianos/service interface
type program struct {
	server   *http.Server
	settings config.Settings
}

func (p *program) Start(s service.Service) error {
	// Start should not block.
	go p.run()
	return nil
}

func (p *program) run() {
	log.Println("Attempting initial login...")
	api, err := login(context.Background(), &p.settings, logging.New(os.Stderr, logging.LevelQuiet))
	if err != nil {
		// Exit so the service manager attempts a restart.
		log.Printf("Fatal: Initial login failed: %v", err)
		os.Exit(1)
	}
	log.Println("Initial login successful.")

	registry := prometheus.NewRegistry()
	registry.MustRegister(&exporter.Collector{Client: api})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	p.server = &http.Server{
		Addr:              ":" + expPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("CVP Exporter listening on %s", p.server.Addr)
	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("HTTP Server error: %v", err)
	}
}

func (p *program) Stop(s service.Service) error {
	log.Println("Stopping service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}
	return nil
}

// serviceArguments are passed to the binary when the service manager starts it.
func serviceArguments(s config.Settings, port string) []string {
	args := []string{
		"exporter",
		"--" + config.KeyHost, s.Host,
		"--" + config.KeyUser, s.User,
		"--" + config.KeyPassword, s.Password,
		"--" + config.KeyInsecure + "=" + strconv.FormatBool(s.Insecure),
		"--port", port,
	}
	if s.LoginTimeout > 0 {
		args = append(args, "--"+config.KeyLoginTimeout, s.LoginTimeout.String())
	}
	if s.RetryCount > 0 {
		args = append(args, "--"+config.KeyRetryCount, strconv.Itoa(s.RetryCount), "--"+config.KeyRetryWait, s.RetryWait.String())
	}
	return args
}

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that exposes CVP inventory metrics.
Can be installed as a system service.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := config.Load(viper.GetViper())

		if serviceAction == "install" && s.Password == "" {
			log.Fatal("Error: You must provide --password to install the service.")
		}
		if serviceAction == "" && service.Interactive() {
			if err := s.ResolvePassword(prompt); err != nil {
				fatal(err)
			}
		}

		svcConfig := &service.Config{
			Name:        "cvp-exporter",
			DisplayName: "CVP Prometheus Exporter",
			Description: "Exposes CVP inventory metrics to Prometheus",
			Arguments:   serviceArguments(s, expPort),
		}

		prg := &program{settings: s}

		svc, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		if serviceAction != "" {
			if err := service.Control(svc, serviceAction); err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// Blocks until the service manager (or Ctrl-C) stops us.
		logger, err := svc.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = svc.Run(); err != nil {
			logger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expPort, "port", "9101", "Port to listen on")
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
