package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/polar-health-link/accesslink"
	"github.com/jrsteele09/polar-health-link/auth"
	"github.com/jrsteele09/polar-health-link/health"
	"github.com/jrsteele09/polar-health-link/internal/config"
	"github.com/jrsteele09/polar-health-link/server"
	"github.com/jrsteele09/polar-health-link/sessions"
	"github.com/jrsteele09/polar-health-link/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	rootCmd := &cobra.Command{
		Use:          "polar-health-link",
		Short:        "Connects Polar accounts and serves combined activity and exercise data",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v, configFile)
		},
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "optional config file (yaml, json, toml or env)")
	rootCmd.Flags().String("port", "", "listening port, overrides PORT")
	rootCmd.Flags().String("env", "", "environment name, overrides ENV")
	_ = v.BindPFlag("PORT", rootCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("ENV", rootCmd.Flags().Lookup("env"))

	return rootCmd
}

func run(ctx context.Context, v *viper.Viper, configFile string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := config.Load(v, configFile)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}
	setupLogging(c.GetEnv())
	displayAppname(c.GetAppName())

	handler, sr, err := wire(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to wire services")
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go sr.Sweep(ctx, c.GetSessionSweepInterval())

	srv := &http.Server{
		Addr:              c.GetAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      c.GetUpstreamTimeout() + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(srv)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	returnError = shutdown(srv)
	log.Info().Msg("Server stopped")
	return returnError
}

// wire builds the stores, partner clients and HTTP server.
func wire(c config.Config) (http.Handler, *sessions.InMemoryRepo, error) {
	httpClient := &http.Client{Timeout: c.GetUpstreamTimeout()}

	sr := sessions.NewInMemoryRepo(c.GetMaxSessionAge())
	tr := token.NewInMemoryRepo()

	authService, err := auth.NewAuthorizationService(
		auth.Repos{Sessions: sr, Tokens: tr},
		auth.NewOAuthConfig(c),
		auth.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, nil, err
	}

	client, err := accesslink.NewClient(c.GetAccessLinkURL(), tr, accesslink.WithHTTPClient(httpClient))
	if err != nil {
		return nil, nil, err
	}

	snapshots, err := health.NewSnapshotService(client)
	if err != nil {
		return nil, nil, err
	}

	s, err := server.New(c, server.Services{
		Auth:      authService,
		Tokens:    tr,
		Registrar: client,
		Snapshots: snapshots,
	})
	if err != nil {
		return nil, nil, err
	}
	return s, sr, nil
}

func setupLogging(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == config.EnvDev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	// Code paths without a request logger fall back to the global one
	zerolog.DefaultContextLogger = &log.Logger
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
