// Package output renders a kosmo.Summary as the single-line JSON
// document required by spec.md §6, and drives an optional terminal
// progress bar for interactive invocations.
package output

import (
	"encoding/json"

	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

type skipRecord struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type document struct {
	Status        kosmo.Status `json:"status"`
	Copied        int          `json:"copied"`
	Skipped       []skipRecord `json:"skipped"`
	ExcludedFiles int          `json:"excluded_files"`
	ExcludedDirs  int          `json:"excluded_dirs"`
	Errors        []string     `json:"errors"`
}

// JSONLine renders summary as the single required stdout line, per
// spec.md §6. The errors array lists every Failed outcome in order,
// followed by every warning in order.
func JSONLine(summary *kosmo.Summary) ([]byte, error) {
	doc := document{
		Status:        summary.Status,
		Copied:        summary.Copied,
		Skipped:       make([]skipRecord, 0, len(summary.Skipped)),
		ExcludedFiles: summary.ExcludedFiles,
		ExcludedDirs:  summary.ExcludedDirs,
		Errors:        make([]string, 0, len(summary.Failed)+len(summary.Warnings)),
	}

	for _, s := range summary.Skipped {
		doc.Skipped = append(doc.Skipped, skipRecord{Path: s.Path, Reason: string(s.SkipReason)})
	}
	for _, f := range summary.Failed {
		doc.Errors = append(doc.Errors, f.Path+": "+f.Err.Error())
	}
	doc.Errors = append(doc.Errors, summary.Warnings...)

	return json.Marshal(doc)
}
