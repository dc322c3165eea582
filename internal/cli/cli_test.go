package cli

import (
	"bytes"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "timeslot dev") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestAvailabilityBulkCmd_ValidatesBeforeDialing(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"availability", "bulk", "--resource", "not-a-uuid", "--from", "2025-11-03", "--to", "2025-11-07", "--start", "09:00", "--end", "18:00"})

	err := root.Execute()
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestMigrateCmd_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", t.TempDir()+"/timeslot.db")
	t.Setenv("LOCK_BACKEND", "local")

	root := NewRootCmd()
	root.SetArgs([]string{"migrate", "--config", ""})
	if err := root.Execute(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}
