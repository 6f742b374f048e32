// Command ontoplan grounds natural language logistics queries in an
// ontology and turns them into validated execution plans and code.
//
// Usage:
//
//	ontoplan serve --config config.yaml
//	ontoplan plan "How many containers were gated out of Sydney terminal on 20 July 2025?"
//	ontoplan validate --config config.yaml
//	ontoplan tools
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ontoplan/ontoplan/pkg/config"
	"github.com/ontoplan/ontoplan/pkg/logger"
	"github.com/ontoplan/ontoplan/pkg/server"
)

// CLI defines the command-line interface.
type CLI struct {
	Version  VersionCmd  `cmd:"" help:"Show version information."`
	Serve    ServeCmd    `cmd:"" help:"Start the planning API server."`
	Plan     PlanCmd     `cmd:"" help:"Run one query through the pipeline and print the result."`
	Validate ValidateCmd `cmd:"" help:"Validate configuration, ontology, and tool catalog."`
	Tools    ToolsCmd    `cmd:"" help:"List the registered tools."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (text or json)." default:"text"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("ontoplan version %s\n", version)
	return nil
}

// ServeCmd starts the planning API server.
type ServeCmd struct {
	Host string `help:"Host to bind (overrides config)."`
	Port int    `help:"Port to listen on (overrides config)."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := server.New(addr, rt.pipeline, rt.layer, server.WithGatherer(rt.registry))

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
		cancel()
	}()

	return srv.Start()
}

// PlanCmd runs one query end to end and prints the result as JSON.
type PlanCmd struct {
	Query string `arg:"" help:"Natural language query."`
}

func (c *PlanCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}
	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}

	result, err := rt.pipeline.Run(context.Background(), c.Query)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// ValidateCmd checks that the configuration loads, the ontology parses,
// and every tool binds to a known entity or relation.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("ontology: %d entities, %d relations\n",
		len(rt.layer.EntityNames()), rt.layer.RelationCount())
	fmt.Printf("catalog: %d tools bound\n", len(rt.layer.Tools()))
	fmt.Println("configuration is valid")
	return nil
}

// ToolsCmd lists every registered tool with its association.
type ToolsCmd struct{}

func (c *ToolsCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}
	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}

	for _, tool := range rt.layer.Tools() {
		if tool.AssociatedRelation != nil {
			fmt.Printf("%-28s %s\n", tool.Name, tool.AssociatedRelation.String())
		} else {
			fmt.Printf("%-28s %s\n", tool.Name, tool.AssociatedEntity)
		}
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	_ = config.LoadEnvFiles()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("ontoplan"),
		kong.Description("Ontology-grounded query planning pipeline"),
		kong.UsageOnError(),
	)

	level := logger.ParseLevel(cli.LogLevel)
	output := os.Stderr
	if cli.LogFile != "" {
		file, cleanup, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		output = file
	}
	logger.Init(level, output, cli.LogFormat)

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
