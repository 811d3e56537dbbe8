package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/fixitnow/chatsync/internal/config"
	"github.com/fixitnow/chatsync/internal/daemon"
	"github.com/fixitnow/chatsync/internal/session"
)

func main() {
	sessionFlag := pflag.StringP("session", "s", "", "session name (overrides config default)")
	configFlag := pflag.StringP("config", "c", "", "config file (default $CHATSYNC_HOME/config.toml)")
	pflag.Parse()

	sessionName, err := session.Resolve(*sessionFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	path := *configFlag
	if path == "" {
		path = session.ConfigPath()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := fx.New(
		daemon.Module(daemon.Params{SessionName: sessionName, Config: cfg}),
	)
	app.Run()
}
