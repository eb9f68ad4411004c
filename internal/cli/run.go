package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/kosmokopy/kosmokopy/pkg/config"
	"github.com/kosmokopy/kosmokopy/pkg/logging"
	"github.com/kosmokopy/kosmokopy/pkg/orchestrator"
	"github.com/kosmokopy/kosmokopy/pkg/output"
)

// NewRootCommand builds the kosmokopy root command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kosmokopy",
		Short: "Verified file-transfer engine",
		Long: `kosmokopy moves or copies files between local and SSH-reachable remote
endpoints, verifying every transfer before a move deletes its source.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTransfer,
	}

	AddGlobalFlags(cmd)
	AddTransferFlags(cmd)
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func runTransfer(cmd *cobra.Command, args []string) error {
	if err := validateTransferFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags the user did not pass fall back to the config file's defaults.
	flags := cmd.Flags()
	if !flags.Changed("conflict") {
		transferFlags.Conflict = ""
	}
	if !flags.Changed("mode") {
		transferFlags.Mode = ""
	}
	if !flags.Changed("method") {
		transferFlags.Method = ""
	}
	if !flags.Changed("strip-spaces") {
		transferFlags.StripSp = cfg.Defaults.StripSpaces
	}

	req, err := buildRequest(cfg)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	runner := orchestrator.New(logger)

	var bar *output.ProgressBar
	if globalFlags.Verbose && !globalFlags.Quiet {
		bar = output.NewProgressBar(os.Stderr)
		runner.OnPlanned = bar.SetTotal
		runner.OnFile = bar.Increment
	}

	summary, _ := runner.Run(ctx, req)
	if bar != nil {
		bar.Finish()
	}

	line, err := output.JSONLine(summary)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(line))

	if code := summary.ExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}

// createLogger builds the diagnostic logger. Without --log-file, the
// config file's logging section is used when it is enabled; otherwise
// (the common case) the result is a NullLogger. The required JSON
// summary line is always written directly to stdout regardless.
func createLogger(cfg *config.Config) (logging.Logger, error) {
	logFile := globalFlags.LogFile
	logFormat := globalFlags.LogFormat
	logLevel := globalFlags.LogLevel
	if logFile == "" && cfg.Logging.Enabled {
		logFile = cfg.Logging.File
		logFormat = cfg.Logging.Format
		logLevel = cfg.Logging.Level
	}
	if logFile == "" {
		return logging.NewNullLogger(), nil
	}

	format := logging.FormatText
	if logFormat == "json" {
		format = logging.FormatJSON
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       logFile,
		Format:     format,
		Level:      logging.ParseLevel(logLevel),
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 5,
	})
}
