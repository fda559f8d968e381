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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lblod/acmidm-login-service/auth"
	identitysparql "github.com/lblod/acmidm-login-service/identity/sparqlrepo"
	"github.com/lblod/acmidm-login-service/internal/config"
	"github.com/lblod/acmidm-login-service/internal/metrics"
	"github.com/lblod/acmidm-login-service/openid"
	"github.com/lblod/acmidm-login-service/rlog"
	"github.com/lblod/acmidm-login-service/server"
	sessionsparql "github.com/lblod/acmidm-login-service/sessions/sparqlrepo"
	"github.com/lblod/acmidm-login-service/sparql"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := newLogger(c)
	m := metrics.New()

	store := sparql.NewClient(c.GetSparqlEndpoint(), c.GetRequestTimeout(), m, logger)

	resolver, err := openid.NewResolver(context.Background(), c, logger)
	if err != nil {
		return fmt.Errorf("connecting to the OpenID Provider: %w", err)
	}

	service := auth.NewSessionService(resolver, auth.Repos{
		Identity: identitysparql.New(store, c, logger),
		Sessions: sessionsparql.New(store, c, logger),
	}, c, m, logger)

	audit := rlog.NewRecorder(store, c.GetLogsGraph(), logger)

	handler, err := server.New(c, service, audit)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func newLogger(c config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if c.GetEnv() == "DEV" {
		logger = logger.Level(zerolog.DebugLevel).Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
	return logger
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
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
