package main

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/csheth/carevo/internal/tuitest"
)

func TestDashboardSearchOffline(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and drives the binary")
	}
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	tmp := t.TempDir()

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "--offline", "--no-alt-screen", "--log-file", filepath.Join(tmp, "carevo.log")},
		Dir:     cmdDir,
		Env:     []string{"XDG_CONFIG_HOME=" + tmp},
		Width:   100,
		Height:  32,
		Steps: []tuitest.Step{
			tuitest.Type(time.Second, "/"),
			tuitest.Type(200*time.Millisecond, "dbms"),
			tuitest.Pause(time.Second),
			tuitest.Press(0, tuitest.KeyCtrlC),
		},
		Timeout:        8 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.Contains("Trending") {
		t.Fatalf("dashboard never rendered the notes sections")
	}
	if !rec.Contains(`Results for "dbms"`) {
		frame, _ := rec.FinalFrame()
		t.Fatalf("search results missing, final frame:\n%s", frame.Plain)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "carevo-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
