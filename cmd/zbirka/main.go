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

	"github.com/rs/zerolog"

	"github.com/erazemk/zbirka/internal/config"
	"github.com/erazemk/zbirka/internal/logging"
	"github.com/erazemk/zbirka/internal/store"
)

const usage = `Usage: zbirka [flags] <command> [command flags] [args]

Commands:
  add        -name N -condition C -number K -price P [-no-label]
  list       [-recent] [-order O]      list items in stock (O: insertion, recency)
  sold                                 list sold items
  search     [-sold] [-recent] [-order O] <query>
                                       search name, condition, number and identifier
  show       [-sold] <id>              show one item
  lookup     <identifier>              find items by scanned identifier
  edit       <id> [-name] [-condition] [-number] [-price]
  edit-sold  <id> [-name] [-condition] [-number] [-price] [-sell-price]
  sell       <id> -price P             move an item to the sold list
  undo       <id>                      move a sold item back into stock
  delete     [-sold] [-yes] <id>       delete an item
  label      <id>                      render the label of an item
  stats                                show stock and sales totals

Flags:
  -d, -db <path>          SQLite database path (default: $ZBIRKA_DB or zbirka.sqlite3)
  -L, -labels <dir>       label output directory (default: $ZBIRKA_LABEL_DIR or labels)
  -l, -log <path>         log file path (default: $ZBIRKA_LOG_FILE, none)
  -h, -help               show this help and exit
`

// errUsage marks errors caused by malformed command lines.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries what every command needs.
type app struct {
	store    *store.Store
	labelDir string
	log      zerolog.Logger
	in       io.Reader
	out      io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("zbirka", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dbPath string
	fs.StringVar(&dbPath, "db", cfg.DBPath, "")
	fs.StringVar(&dbPath, "d", cfg.DBPath, "")

	var labelDir string
	fs.StringVar(&labelDir, "labels", cfg.LabelDir, "")
	fs.StringVar(&labelDir, "L", cfg.LabelDir, "")

	var logPath string
	fs.StringVar(&logPath, "log", cfg.LogFile, "")
	fs.StringVar(&logPath, "l", cfg.LogFile, "")

	fs.Usage = func() { fmt.Fprint(stdout, usage) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "missing command")
		fs.Usage()
		return 2
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command: %s\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	logger, closeLog, err := logging.New(logging.ParseLevel(cfg.LogLevel), logPath, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closeLog()

	s, err := store.Open(ctx, dbPath, store.WithLogger(logger))
	if err != nil {
		logger.Error().Err(err).Str("path", dbPath).Msg("failed to open database")
		return 1
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close database")
		}
	}()

	a := &app{store: s, labelDir: labelDir, log: logger, in: stdin, out: stdout}
	if err := cmd(ctx, a, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		logger.Error().Err(err).Str("command", fs.Arg(0)).Msg(describe(err))
		return 1
	}
	return 0
}

// describe turns store errors into a short message for the user.
func describe(err error) string {
	var invalid *store.ValidationError
	var notFound *store.NotFoundError
	var storage *store.StorageError
	switch {
	case errors.As(err, &invalid):
		return "invalid input"
	case errors.As(err, &notFound):
		return fmt.Sprintf("no %s item with id %d", notFound.Collection, notFound.ID)
	case errors.As(err, &storage):
		return "database error"
	default:
		return "command failed"
	}
}
