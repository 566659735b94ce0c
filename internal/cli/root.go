package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lexwatch/judgment-scraper/internal/config"
	"github.com/lexwatch/judgment-scraper/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitPartial = 2
)

// Version is set at build time.
var Version = "dev"

// exitError carries a non-default exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// app holds state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time
}

// load reads the config file and environment, applies bound flags and sets
// up logging.
func (a *app) load() (*config.Config, error) {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if a.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.NewWithFormat(level, logger.Format(cfg.Log.Format), a.stderr))

	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug("Using config file", logger.Fields{"path": used})
	}
	return cfg, nil
}

// bind ties a flag to a config key so flags override file and environment.
func (a *app) bind(flags *pflag.FlagSet, key, flag string) {
	_ = a.v.BindPFlag(key, flags.Lookup(flag))
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "judgments",
		Short: "Scrape court judgments by keyword and export them to Excel",
		Long: `A CLI tool that searches Indian Kanoon for judgments matching keywords,
stores them in a local SQLite database and exports them as XLSX or CSV,
optionally mailing the workbook with an SMS heads-up.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default ./judgments.yaml or ~/.config/judgments/config.yaml)")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	cmd.PersistentFlags().String("db", "", "SQLite database path")
	a.bind(cmd.PersistentFlags(), "db_path", "db")

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.AddCommand(
		newScrapeCmd(a),
		newExportCmd(a),
		newInitCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// Run executes the CLI with args and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		v:      config.New(),
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}

	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
		return exitErr.code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
