// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"testing"
)

// homeEnvVar returns the variable SetHomeDir mutates on this platform.
func homeEnvVar() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

func TestSetHomeDirSetsAndRestores(t *testing.T) {
	envVar := homeEnvVar()
	original := os.Getenv(envVar)
	tmpDir := t.TempDir()

	cleanup := SetHomeDir(t, tmpDir)
	if got := os.Getenv(envVar); got != tmpDir {
		t.Errorf("%s = %q, want %q", envVar, got, tmpDir)
	}

	cleanup()
	if got := os.Getenv(envVar); got != original {
		t.Errorf("after cleanup, %s = %q, want %q", envVar, got, original)
	}
}

func TestSetHomeDirWithTCleanup(t *testing.T) {
	envVar := homeEnvVar()
	original := os.Getenv(envVar)
	tmpDir := t.TempDir()

	t.Run("inner", func(t *testing.T) {
		t.Cleanup(SetHomeDir(t, tmpDir))
		if got := os.Getenv(envVar); got != tmpDir {
			t.Errorf("%s = %q, want %q", envVar, got, tmpDir)
		}
	})

	if got := os.Getenv(envVar); got != original {
		t.Errorf("after subtest, %s = %q, want %q", envVar, got, original)
	}
}
