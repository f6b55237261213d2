package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/syssam/umlgen"
	"github.com/syssam/umlgen/compiler"
	"github.com/syssam/umlgen/internal/config"
	"github.com/syssam/umlgen/internal/events"
	"github.com/syssam/umlgen/internal/server"
	"github.com/syssam/umlgen/internal/store"
)

func serveCmd(ctx context.Context, args []string, _, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	envFiles := fs.String("env", ".env", "comma separated .env files")
	port := fs.Int("port", 0, "HTTP port (default $PORT or 8080)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var opts []config.Option
	if *port != 0 {
		opts = append(opts, config.WithPort(*port))
	}
	cfg, err := config.Load(compiler.SplitList(*envFiles), opts...)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.Logger(stderr)
	slog.SetDefault(logger)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var cache umlgen.Cache = umlgen.NewMemoryCache(cfg.CacheSize)
	if cfg.RedisAddr != "" {
		client := umlgen.NewRedisClient(cfg.RedisAddr)
		defer client.Close()
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pctx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		cache = umlgen.NewRedisCache(client)
	}

	var pub events.Publisher = events.Discard{}
	if cfg.NATSURL != "" {
		n, err := events.Connect(cfg.NATSURL, cfg.EventSubject)
		if err != nil {
			return err
		}
		defer n.Close()
		pub = n
	}

	srv := server.New(cfg,
		server.WithStore(st),
		server.WithCache(cache),
		server.WithPublisher(pub),
		server.WithLogger(logger),
	).HTTPServer()

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "store", cfg.StoreDialect)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server gracefully")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exiting")
	return nil
}
