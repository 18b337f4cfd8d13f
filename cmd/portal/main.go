package main

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"

	"incognitify/portal/internal/client/cli"
	"incognitify/portal/internal/client/localstore"
	"incognitify/portal/internal/client/portal"
	"incognitify/portal/internal/config"
	"incognitify/portal/internal/i18n"
	"incognitify/portal/internal/log"
	"incognitify/portal/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := log.NewCLI(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := localstore.Open(ctx, cfg.StatePath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.StatePath).Msg("open local state failed")
		return 1
	}
	defer store.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		logger.Error().Err(err).Msg("init cookie jar failed")
		return 1
	}
	mirror, err := portal.NewJarMirror(jar, cfg.ServerURL)
	if err != nil {
		logger.Error().Err(err).Str("server", cfg.ServerURL).Msg("invalid server url")
		return 1
	}

	api := portal.New(cfg.ServerURL, jar, cfg.Timeout, logger)

	tokens := session.NewTokenStore(store, mirror, logger)
	tokens.Sync(ctx)

	prefs := i18n.NewPreferences(store, api, logger)
	defer prefs.Wait()

	catalog := i18n.NewCatalog(i18n.FallbackSource{api, i18n.NewEmbeddedSource()}, logger)

	app := cli.New(ctx, cli.Dependencies{
		API:         api,
		Tokens:      tokens,
		Preferences: prefs,
		Catalog:     catalog,
		Locale:      cfg.Locale,
		In:          os.Stdin,
		Out:         os.Stdout,
	}, logger)

	return app.Run(ctx, os.Args[1:])
}
