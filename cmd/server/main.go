package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-lockstep/internal/config"
	"github.com/tender-barbarian/go-lockstep/internal/docset"
	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/tools"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	root := flag.String("root", "", "Root directory of the Go codebase to validate (default: config, then \".\")")
	xmlPath := flag.String("xml", "", "Directory, file or URL holding introspection XML (default: config, then XML/ or xml/)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	v := config.NewViper()
	for key, val := range map[string]string{config.KeyRoot: *root, config.KeyXMLPath: *xmlPath, config.KeyLogLevel: *logLevel} {
		if val != "" {
			v.Set(key, val)
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg, err = cfg.Resolve()
	if err != nil {
		return err
	}
	// stdout carries the MCP protocol, so logs go to stderr.
	logger := config.NewLogger(cfg.LogLevel, os.Stderr, true)

	info, err := os.Stat(cfg.Root)
	if err != nil {
		return fmt.Errorf("invalid --root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("--root %q is not a directory", cfg.Root)
	}

	logger.Info("loading documents", slog.String("xml_path", cfg.XMLPath))
	docs, err := docset.New(nil, logger).Load(context.Background(), cfg.XMLPath)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	f := finder.New(docs)
	logger.Info("documents ready", slog.Int("documents", len(docs)), slog.Int("interfaces", len(f.Interfaces())))

	s := server.NewMCPServer("go-lockstep", "0.1.0")
	tools.Register(s, f, tools.NewPinStore(cfg.Root, cfg.Pins), cfg.Root)

	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("serving MCP: %w", err)
	}
	return nil
}
