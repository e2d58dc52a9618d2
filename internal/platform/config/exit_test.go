package config_test

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/smalltown/internal/platform/config"
)

// Exitf calls os.Exit, so the assertion reruns the test binary as a
// subprocess and inspects its exit code and stderr.
func TestExitfExitsWithCode1(t *testing.T) {
	if os.Getenv("SMALLTOWN_TEST_EXITF") == "1" {
		config.Exitf("boot failed: %s", "bad flag")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfExitsWithCode1$")
	cmd.Env = append(os.Environ(), "SMALLTOWN_TEST_EXITF=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "boot failed: bad flag") {
		t.Fatalf("stderr = %q, want the formatted message", string(out))
	}
}
