package main

import (
	"context"
	"os"
	"os/signal"

	rootcmder "github.com/papercomputeco/plugingen/cmd/plugingen/root"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootcmder.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
