package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/receiptscan/email-receipts/internal/entity"
	"github.com/receiptscan/email-receipts/internal/parser"
)

// parsemail runs the extraction engine over a single email JSON file
// ({subject, from, date, body}) and prints the resulting record. Handy
// for iterating on patterns without touching an inbox or a store.
func main() {
	fs := ff.NewFlagSet("parsemail")
	var (
		input    = fs.StringLong("input", "", "email JSON file (defaults to stdin)")
		currency = fs.StringLong("currency", "USD", "default currency code")
	)
	if err := ff.Parse(fs, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	var raw []byte
	var err error
	if *input != "" {
		raw, err = os.ReadFile(*input)
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var msg entity.InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		fmt.Fprintf(os.Stderr, "error: decode message: %v\n", err)
		os.Exit(1)
	}

	eng := parser.New(parser.Config{DefaultCurrency: *currency}, logger)
	rec := eng.Parse(msg)

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
