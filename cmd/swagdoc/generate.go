package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vitalvas/swagdoc/swaggerui"
)

type GenerateCmd struct {
	Config     string `short:"c" type:"existingfile" help:"Path to the YAML configuration file."`
	APIVersion string `name:"api-version" short:"v" help:"API version to document (default: the first configured version)."`
	Format     string `short:"f" enum:"json,yaml" default:"json" help:"Output format (${enum})."`
	RootURL    string `name:"root-url" help:"Scheme, host and base path written to the document, e.g. https://api.example.com/v1."`
	Output     string `short:"o" type:"path" help:"Output file (default: stdout)."`
	Pretty     bool   `default:"true" negatable:"" help:"Indent JSON output."`
}

func (c *GenerateCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	a, err := newApp(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return c.write(os.Stdout, a)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	if err := c.write(f, a); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("document written", slog.String("path", c.Output), slog.String("format", c.Format))
	return nil
}

func (c *GenerateCmd) write(w io.Writer, a *app) error {
	version := c.APIVersion
	if version == "" {
		version = a.generator.Versions()[0]
	}

	doc, err := a.generator.Generate(c.RootURL, version)
	if err != nil {
		return err
	}

	var data []byte
	switch c.Format {
	case "yaml":
		data, err = swaggerui.EncodeYAML(doc)
	default:
		data, err = swaggerui.EncodeJSON(doc, c.Pretty)
	}
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	_, err = w.Write(data)
	return err
}
