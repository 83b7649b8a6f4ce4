// Command eventtail signs in to the API and prints the account's live
// events until interrupted.
//
//	eventtail -email ada@example.com -password secret -demo
//
// With TOKEN_STORE=redis the session survives restarts and the credentials
// are only needed once.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/golid-ai/dashkit/pkg/config"
	"github.com/golid-ai/dashkit/pkg/logger"
)

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	fs := flag.NewFlagSet("eventtail", flag.ExitOnError)
	fs.StringVar(&cfg.Email, "email", cfg.Email, "account email")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "account password")
	fs.BoolVar(&cfg.Demo, "demo", cfg.Demo, "ask the backend for a sample notification once connected")
	fs.BoolVar(&cfg.Logout, "logout", cfg.Logout, "sign out on exit")
	events := fs.String("events", strings.Join(cfg.Events, ","), "comma separated event names to print")
	_ = fs.Parse(os.Args[1:])
	cfg.Events = splitList(*events)

	log := logger.New(logger.WithEnvironment(cfg.Env, "eventtail"), logger.WithOutput(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, log); err != nil {
		fmt.Fprintln(os.Stderr, "eventtail:", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
