package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/claude/liftcast/internal/app"
	"github.com/claude/liftcast/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.StringP("config", "c", os.Getenv("LIFTCAST_CONFIG"), "path to config file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftcast-mcp", Version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol, so everything else goes to stderr.
	a, err := app.Load(ctx, *configPath, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer a.Close()

	s := mcp.New(a.Service, a.Store, a.Config.Analysis.Windows, Version, a.Log)
	a.Log.Info("liftcast MCP server starting", "version", Version, "workouts", a.Store.Len())

	if err := server.ServeStdio(s); err != nil {
		a.Log.Error("stdio server error", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("server stopped")
}
