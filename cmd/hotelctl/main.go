package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"contoso_hotel/internal/adapters/observability"
	redisad "contoso_hotel/internal/adapters/redis"
	"contoso_hotel/internal/shared"
	mysqlrepo "contoso_hotel/internal/storage/mysql"
)

// closers releases every resource of a session, last opened first.
type closers []io.Closer

func (cs closers) Close() error {
	var errs []error
	for i := len(cs) - 1; i >= 0; i-- {
		errs = append(errs, cs[i].Close())
	}
	return errors.Join(errs...)
}

func main() {
	// shared.Load reads .env before the environment
	cfg, envErr := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv).Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if envErr != nil {
		log.Warn().Err(envErr).Msg("continuing with process environment only")
	}

	root := newRootCmd(func(ctx context.Context) (session, error) {
		dsn, err := shared.ResolveDSN(cfg.InstallRoot)
		if err != nil {
			return session{}, err
		}
		db, err := mysqlrepo.Connect(ctx, dsn)
		if err != nil {
			return session{}, err
		}
		sess := session{Repo: mysqlrepo.New(db)}
		cs := closers{db}

		// writes evict the API's cached listings when it runs with a cache
		if cfg.RedisAddr != "" {
			rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
			if err := rc.Ping(ctx); err != nil {
				log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; API listings may stay stale until their TTL")
				_ = rc.Close()
			} else {
				sess.Cache = rc
				cs = append(cs, rc)
			}
		}
		sess.Closer = cs
		return sess, nil
	}, os.Stdout)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
