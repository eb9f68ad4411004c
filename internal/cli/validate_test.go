package cli

import (
	"testing"

	"github.com/kosmokopy/kosmokopy/pkg/config"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

func TestParseLocationLocal(t *testing.T) {
	loc, err := parseLocation("/var/data")
	if err != nil {
		t.Fatalf("parseLocation: %v", err)
	}
	if loc.Host != "" || loc.Path != "/var/data" {
		t.Errorf("loc = %+v, want local /var/data", loc)
	}
}

func TestParseLocationRemote(t *testing.T) {
	loc, err := parseLocation("backup-host:/srv/archive")
	if err != nil {
		t.Fatalf("parseLocation: %v", err)
	}
	if loc.Host != "backup-host" || loc.Path != "/srv/archive" {
		t.Errorf("loc = %+v, want backup-host:/srv/archive", loc)
	}
}

func TestParseLocationRejectsRelative(t *testing.T) {
	if _, err := parseLocation("relative/path"); err == nil {
		t.Error("expected an error for a relative path")
	}
}

func TestBuildRequestAppliesFlagsOverConfig(t *testing.T) {
	transferFlags = TransferFlags{
		CLI:      true,
		Src:      "/src",
		Dst:      "host:/dst",
		Move:     true,
		Conflict: "rename",
		Mode:     "files",
		Method:   "rsync",
	}
	defer func() { transferFlags = TransferFlags{} }()

	req, err := buildRequest(config.Default())
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}

	if req.Op != kosmo.Move {
		t.Errorf("op = %v, want Move", req.Op)
	}
	if req.Policy != kosmo.Rename {
		t.Errorf("policy = %v, want Rename", req.Policy)
	}
	if req.Layout != kosmo.FilesOnly {
		t.Errorf("layout = %v, want FilesOnly", req.Layout)
	}
	if req.Method != kosmo.Rsync {
		t.Errorf("method = %v, want Rsync", req.Method)
	}
	if req.Destination.Host != "host" || req.Destination.Path != "/dst" {
		t.Errorf("destination = %+v", req.Destination)
	}
}

func TestValidateTransferFlagsRequiresCLI(t *testing.T) {
	transferFlags = TransferFlags{Src: "/a", Dst: "/b"}
	defer func() { transferFlags = TransferFlags{} }()

	if err := validateTransferFlags(); err == nil {
		t.Error("expected an error when --cli is not set")
	}
}
