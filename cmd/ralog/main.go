package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ralog/cmd/ralog/commands"
	"git.home.luguber.info/inful/ralog/internal/foundation/errors"
	"git.home.luguber.info/inful/ralog/internal/version"
)

func main() {
	cli := &commands.CLI{}
	kong.Parse(cli,
		kong.Name("ralog"),
		kong.Description("Build a static ramen log from a directory of markdown documents."),
		kong.UsageOnError(),
		commands.Vars(version.String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx)
	stop()

	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
