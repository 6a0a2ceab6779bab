package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/liveatc"
	"github.com/fwojciec/liveatc/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Config   Config
	Logger   *slog.Logger
	Airports liveatc.AirportService
	Finder   liveatc.AirportFinder
	Syncer   liveatc.AirportSyncer
	Batch    *scrape.Batch
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config      string `short:"c" type:"path" env:"LIVEATC_CONFIG" help:"TOML config file"`
	DB          string `name:"db" type:"path" env:"LIVEATC_DB" help:"SQLite database path"`
	DatabaseURL string `name:"database-url" env:"LIVEATC_DATABASE_URL" help:"PostgreSQL URL; overrides --db"`
	BaseURL     string `name:"base-url" env:"LIVEATC_BASE_URL" help:"LiveATC site root"`
	Verbose     bool   `short:"v" help:"Enable debug logging"`

	Lookup LookupCmd `cmd:"" help:"Look airports up on LiveATC"`
	Show   ShowCmd   `cmd:"" help:"Show a stored airport"`
	List   ListCmd   `cmd:"" help:"List stored airports"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored airport"`
	Stream StreamCmd `cmd:"" help:"Resolve the audio stream of a channel page"`
	Metar  MetarCmd  `cmd:"" help:"Decode a METAR weather report"`
	Serve  ServeCmd  `cmd:"" help:"Serve the airport store over HTTP"`
}

// LookupCmd is the "lookup" subcommand.
type LookupCmd struct {
	Codes []string `arg:"" name:"code" help:"ICAO codes to look up"`
	Save  bool     `short:"s" help:"Store found airports"`
	JSON  bool     `name:"json" help:"Print airports as JSON"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Code string `arg:"" help:"ICAO code"`
	JSON bool   `name:"json" help:"Print the airport as JSON"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Country string `help:"Only airports in this country"`
	Limit   int    `short:"n" help:"Maximum number of airports"`
	Offset  int    `help:"Number of airports to skip"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Code  string `arg:"" help:"ICAO code"`
	Force bool   `help:"Confirm deletion"`
}

// StreamCmd is the "stream" subcommand.
type StreamCmd struct {
	URL string `arg:"" help:"Channel page URL"`
}

// MetarCmd is the "metar" subcommand.
type MetarCmd struct {
	Report []string `arg:"" help:"Raw METAR report; put -- before it when a group starts with -"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (default from config)"`
}
