package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/golid-ai/dashkit/pkg/apiclient"
	"github.com/golid-ai/dashkit/pkg/authcookie"
	"github.com/golid-ai/dashkit/pkg/authstate"
	"github.com/golid-ai/dashkit/pkg/config"
	"github.com/golid-ai/dashkit/pkg/feature"
	"github.com/golid-ai/dashkit/pkg/logger"
	"github.com/golid-ai/dashkit/pkg/realtime"
	"github.com/golid-ai/dashkit/pkg/redis"
	"github.com/golid-ai/dashkit/pkg/tokens"
)

// run wires the API client and its token store from the environment, then
// tails events.
func run(ctx context.Context, cfg Config, out io.Writer, log *slog.Logger) error {
	var (
		apiCfg apiclient.Config
		tokCfg tokens.Config
		rtCfg  realtime.Config
	)
	if err := errors.Join(config.Load(&apiCfg), config.Load(&tokCfg), config.Load(&rtCfg)); err != nil {
		return err
	}

	var rdb goredis.Cmdable
	if tokCfg.Backend == "redis" {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
	}

	store, err := tokens.NewFromConfig(tokCfg, rdb)
	if err != nil {
		return err
	}

	api := apiclient.NewFromConfig(apiCfg,
		apiclient.WithTokenStore(store),
		apiclient.WithLogger(log),
	)
	defer api.Close()

	return tail(ctx, cfg, api, rtCfg, out, log)
}

func tail(ctx context.Context, cfg Config, api *apiclient.Client, rtCfg realtime.Config, out io.Writer, log *slog.Logger) error {
	jar, err := authcookie.NewJar(nil, cfg.Origin)
	if err != nil {
		return err
	}
	auth := authstate.New(api, authstate.WithCookie(jar), authstate.WithLogger(log))
	defer auth.Close()

	if err := signIn(ctx, cfg, auth); err != nil {
		return err
	}

	var mu sync.Mutex
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format+"\n", args...)
	}
	printf("signed in as %s", auth.DisplayName())

	if cfg.Logout {
		defer func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			auth.Logout(ctx)
		}()
	}

	flags := feature.New(api.Features(), feature.WithLogger(log))
	if err := flags.Load(ctx); err == nil {
		snapshot := flags.Snapshot()
		for _, name := range slices.Sorted(maps.Keys(snapshot)) {
			log.DebugContext(ctx, "feature flag", slog.String("name", name), slog.Bool("enabled", snapshot[name]))
		}
	}

	rt := realtime.NewFromConfig(api, rtCfg, realtime.WithLogger(log))
	defer rt.Close()

	for _, name := range cfg.Events {
		if name == realtime.EventNotification {
			rt.OnNotification(func(n realtime.Notification) {
				printf("[%s] %s", n.Timestamp, n.Message)
			})
			continue
		}
		rt.On(name, func(data json.RawMessage) {
			printf("%s: %s", name, data)
		})
	}

	states := rt.StateChanges(ctx)
	defer states.Close()
	sessions := auth.Subscribe(ctx)
	defer sessions.Close()

	if err := rt.Connect(ctx); err != nil && ctx.Err() == nil {
		log.WarnContext(ctx, "event stream unavailable, retrying", logger.Error(err))
	}

	stateCh, sessionCh := states.Receive(), sessions.Receive()
	demoSent := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-stateCh:
			if !ok {
				stateCh = nil
				continue
			}
			log.InfoContext(ctx, "event stream", slog.String("state", msg.Data.String()))
			if msg.Data == realtime.Connected && cfg.Demo && !demoSent {
				demoSent = true
				if err := api.Events().Demo(ctx); err != nil {
					log.WarnContext(ctx, "demo event rejected", logger.Error(err))
				}
			}

		case msg, ok := <-sessionCh:
			if !ok {
				sessionCh = nil
				continue
			}
			if msg.Data.Initialized && !msg.Data.IsAuthenticated() {
				return ErrSessionExpired
			}
		}
	}
}

// signIn resumes a stored session or logs in with the configured
// credentials.
func signIn(ctx context.Context, cfg Config, auth *authstate.Store) error {
	auth.Initialize(ctx)
	if auth.IsAuthenticated() {
		return nil
	}
	if cfg.Email == "" {
		return ErrCredentialsRequired
	}

	creds := authstate.LoginCredentials{Email: cfg.Email, Password: cfg.Password}
	state, err := auth.Go(ctx, func(ctx context.Context) error {
		_, err := auth.Login(ctx, creds)
		return err
	}).AwaitContext(ctx)
	if err != nil {
		if state.Error != "" {
			return fmt.Errorf("%w: %s", ErrSignIn, state.Error)
		}
		return errors.Join(ErrSignIn, err)
	}
	return nil
}
