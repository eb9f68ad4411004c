package cli

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/kosmokopy/kosmokopy/pkg/config"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

var remoteLocationPattern = regexp.MustCompile(`^([^/:]+):(/.+)$`)

// parseLocation splits an --src/--dst value into a kosmo.Location, per
// spec.md §6: either an absolute local path or host:/abs/path.
func parseLocation(raw string) (kosmo.Location, error) {
	if m := remoteLocationPattern.FindStringSubmatch(raw); m != nil {
		return kosmo.Location{Host: m[1], Path: m[2]}, nil
	}
	if !filepath.IsAbs(raw) {
		return kosmo.Location{}, fmt.Errorf("path must be absolute or host:/abs/path: %q", raw)
	}
	return kosmo.Location{Path: raw}, nil
}

func validateTransferFlags() error {
	if !transferFlags.CLI {
		return fmt.Errorf("the graphical UI is not part of this build; pass --cli")
	}
	if transferFlags.Src == "" || transferFlags.Dst == "" {
		return fmt.Errorf("--src and --dst are required")
	}

	validConflicts := map[string]bool{"skip": true, "overwrite": true, "rename": true}
	if !validConflicts[transferFlags.Conflict] {
		return fmt.Errorf("invalid --conflict: %s (valid: skip, overwrite, rename)", transferFlags.Conflict)
	}

	validModes := map[string]bool{"files": true, "folders": true}
	if !validModes[transferFlags.Mode] {
		return fmt.Errorf("invalid --mode: %s (valid: files, folders)", transferFlags.Mode)
	}

	validMethods := map[string]bool{"standard": true, "rsync": true}
	if !validMethods[transferFlags.Method] {
		return fmt.Errorf("invalid --method: %s (valid: standard, rsync)", transferFlags.Method)
	}

	return nil
}

// loadConfig loads configuration from file or returns the default.
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// buildRequest turns the parsed flags (with cfg supplying fallbacks for
// anything the flags left at their zero value) into a TransferRequest.
func buildRequest(cfg *config.Config) (*kosmo.TransferRequest, error) {
	source, err := parseLocation(transferFlags.Src)
	if err != nil {
		return nil, fmt.Errorf("--src: %w", err)
	}
	dest, err := parseLocation(transferFlags.Dst)
	if err != nil {
		return nil, fmt.Errorf("--dst: %w", err)
	}

	var srcFiles []string
	for _, f := range transferFlags.SrcFiles {
		if !filepath.IsAbs(f) {
			return nil, fmt.Errorf("--src-files entries must be absolute paths: %q", f)
		}
		srcFiles = append(srcFiles, f)
	}

	op := kosmo.Copy
	if transferFlags.Move {
		op = kosmo.Move
	}

	policy := cfg.Conflict()
	if transferFlags.Conflict != "" {
		switch transferFlags.Conflict {
		case "overwrite":
			policy = kosmo.Overwrite
		case "rename":
			policy = kosmo.Rename
		default:
			policy = kosmo.Skip
		}
	}

	layout := cfg.Mode()
	if transferFlags.Mode == "files" {
		layout = kosmo.FilesOnly
	} else if transferFlags.Mode == "folders" {
		layout = kosmo.PreserveFolders
	}

	method := cfg.Method()
	if transferFlags.Method == "rsync" {
		method = kosmo.Rsync
	} else if transferFlags.Method == "standard" {
		method = kosmo.Standard
	}

	excludes := cfg.Exclude
	if len(transferFlags.Exclude) > 0 {
		excludes = transferFlags.Exclude
	}

	return &kosmo.TransferRequest{
		Source:      source,
		SourceFiles: srcFiles,
		Destination: dest,
		Op:          op,
		Layout:      layout,
		Method:      method,
		Policy:      policy,
		Excludes:    excludes,
		StripSpaces: transferFlags.StripSp,
	}, nil
}
