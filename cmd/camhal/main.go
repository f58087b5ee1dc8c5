// camhal inspects and serves a simulated camera hardware module through
// the module adapter.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitUsage        = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

type command func(ctx context.Context, e *env, args []string) error

var commands = map[string]command{
	"list":  runList,
	"info":  runInfo,
	"open":  runOpen,
	"torch": runTorch,
	"serve": runServe,
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("camhal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", getenv("CAMHAL_CONFIG"), "YAML configuration file")
	modulePath := fs.String("module", "", "simulated module descriptor (.yaml, .yml or .toml)")
	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSuccess
		}
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	name, cmdArgs := rest[0], rest[1:]
	if name == "help" {
		printUsage(stdout)
		return exitSuccess
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n", name)
		printUsage(stderr)
		return exitUsage
	}

	cfg, err := loadConfig(*configPath, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if *modulePath != "" {
		cfg.Module = *modulePath
	}

	e, err := newEnv(ctx, cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer e.close()

	if err := cmd(ctx, e, cmdArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSuccess
		}
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	return exitSuccess
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `camhal - camera hardware module adapter tool

Usage:
  camhal [-config file] [-module descriptor] <command> [options]

Commands:
  list    List cameras with their static info
  info    Show the static characteristics of one camera
  open    Open and close a camera
  torch   Turn a camera's flash unit on or off
  serve   Serve health probes and metrics

Environment:
  CAMHAL_CONFIG, CAMHAL_MODULE, CAMHAL_ADDR, CAMHAL_LOG_LEVEL,
  CAMHAL_LOG_FILE, CAMHAL_TRACING_EXPORTER, CAMHAL_METRICS_EXPORTER,
  CAMHAL_OPEN_RETRIES

Examples:
  camhal -module sim/testdata/phone.yaml list
  camhal -module sim/testdata/phone.yaml info -id 0 -format yaml
  camhal -module sim/testdata/phone.yaml info -id 0 -format cbor > cam0.cbor
  camhal -module sim/testdata/phone.yaml torch -id 0 on
  camhal -config camhal.yaml serve`)
}
