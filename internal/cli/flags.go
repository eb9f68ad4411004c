package cli

import "github.com/spf13/cobra"

// GlobalFlags holds flags persistent across the root command.
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool

	LogFile   string
	LogFormat string
	LogLevel  string
}

var globalFlags GlobalFlags

// AddGlobalFlags registers the persistent flags on the root command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/kosmokopy/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "also show a progress bar on stderr (the JSON summary is still printed)")
	cmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress the progress bar even with --verbose")

	cmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "write structured per-file logs to this file (enables logging)")
	cmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "info", "log level: debug, info, error")
}

// TransferFlags holds the flags of the headless transfer surface.
type TransferFlags struct {
	CLI bool

	Src      string
	Dst      string
	SrcFiles []string
	Move     bool
	Conflict string
	StripSp  bool
	Mode     string
	Method   string
	Exclude  []string
}

var transferFlags TransferFlags

// AddTransferFlags registers the headless transfer flags on cmd.
func AddTransferFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&transferFlags.CLI, "cli", false, "run the headless transfer (required; this build has no GUI)")
	cmd.Flags().StringVar(&transferFlags.Src, "src", "", "source path: /abs/path or host:/abs/path (required)")
	cmd.Flags().StringVar(&transferFlags.Dst, "dst", "", "destination path: /abs/path or host:/abs/path (required)")
	cmd.Flags().StringSliceVar(&transferFlags.SrcFiles, "src-files", nil, "explicit comma-separated list of source files, instead of walking --src")
	cmd.Flags().BoolVar(&transferFlags.Move, "move", false, "delete each source file after its destination is verified")
	cmd.Flags().StringVar(&transferFlags.Conflict, "conflict", "skip", "collision policy: skip, overwrite, rename")
	cmd.Flags().BoolVar(&transferFlags.StripSp, "strip-spaces", false, "replace spaces in destination path components with underscores")
	cmd.Flags().StringVar(&transferFlags.Mode, "mode", "folders", "destination layout: files, folders")
	cmd.Flags().StringVar(&transferFlags.Method, "method", "standard", "transport method: standard, rsync")
	cmd.Flags().StringArrayVar(&transferFlags.Exclude, "exclude", nil, "exclusion pattern (repeatable); see pkg/exclude for the prefix convention")
}
