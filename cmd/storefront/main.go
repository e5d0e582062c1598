package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/junaidrashid-git/modelstore-api/config"
	"github.com/junaidrashid-git/modelstore-api/storefront"
)

func main() {
	config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := storefront.Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
