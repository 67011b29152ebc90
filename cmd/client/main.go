package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/credkeeper/internal/client/authclient"
	"github.com/dmitrijs2005/credkeeper/internal/client/cli"
	"github.com/dmitrijs2005/credkeeper/internal/client/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := authclient.NewGRPCClient(cfg.ServerEndpointAddr, cfg.RequestTimeout)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Run(ctx, os.Args[1:], client, os.Stdin, os.Stdout)
}
