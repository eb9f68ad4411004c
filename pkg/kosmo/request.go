// Package kosmo holds the data types shared across the transfer engine:
// the request that describes a transfer, the plan built from it, and the
// outcomes and summary produced by running it.
package kosmo

// Operation is the top-level action requested for a transfer.
type Operation string

const (
	Copy Operation = "copy"
	Move Operation = "move"
)

// Layout controls how source paths map to destination-relative paths.
type Layout string

const (
	PreserveFolders Layout = "folders"
	FilesOnly       Layout = "files"
)

// Method selects the transport family used for a transfer.
type Method string

const (
	Standard Method = "standard"
	Rsync    Method = "rsync"
)

// CollisionPolicy is the rule applied when a destination path is already
// occupied.
type CollisionPolicy string

const (
	Skip      CollisionPolicy = "skip"
	Overwrite CollisionPolicy = "overwrite"
	Rename    CollisionPolicy = "rename"
)

// Location identifies one side of a TransferRequest before it is resolved
// into an endpoint. Host is empty for a local location.
type Location struct {
	Host string
	Path string
}

// IsRemote reports whether the location names an SSH host.
func (l Location) IsRemote() bool {
	return l.Host != ""
}

// TransferRequest is the immutable input to the engine. It is produced by
// an external collaborator (the CLI, in this repo) and never mutated once
// constructed.
type TransferRequest struct {
	// Source describes where files are read from.
	Source Location
	// SourceFiles, when non-empty, is an explicit list of absolute file
	// paths under Source (rather than "walk Source as a directory").
	SourceFiles []string

	// Destination describes where files are written to.
	Destination Location

	Op       Operation
	Layout   Layout
	Method   Method
	Policy   CollisionPolicy
	Excludes []string

	StripSpaces bool
}

// HasExplicitFiles reports whether the source is an explicit file list
// rather than a directory to be walked.
func (r *TransferRequest) HasExplicitFiles() bool {
	return len(r.SourceFiles) > 0
}
