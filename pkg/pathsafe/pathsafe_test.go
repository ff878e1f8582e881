// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package pathsafe

import (
	"os"
	"path/filepath"
	"testing"

	werr "github.com/archmagece/wald/internal/errors"
)

func TestValidateRelativeStaysInside(t *testing.T) {
	root := t.TempDir()

	got, err := Validate(root, "sub/dir")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := filepath.Join(root, "sub", "dir")
	if got != want {
		t.Errorf("Validate = %q, want %q", got, want)
	}
}

func TestValidateRejectsEscape(t *testing.T) {
	root := t.TempDir()

	_, err := Validate(root, "../../evil")
	if err == nil {
		t.Fatal("expected error for escaping path")
	}
	if !werr.Is(err, werr.ErrEscapesRoot) {
		t.Errorf("expected ErrEscapesRoot, got %v", err)
	}
}

func TestValidateAbsoluteOutsideRootRejected(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir() // a distinct temp dir, guaranteed not under root

	_, err := Validate(root, outside)
	if err == nil {
		t.Fatal("expected error for absolute path outside root")
	}
}

func TestValidateToleratesSymlinkedRoot(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "real")
	if err := os.MkdirAll(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Validate(link, "sub")
	if err != nil {
		t.Fatalf("Validate through symlinked root: %v", err)
	}
	wantSuffix := filepath.Join("real", "sub")
	if filepath.Base(filepath.Dir(got))+string(filepath.Separator)+filepath.Base(got) != wantSuffix {
		// Loose check: result must resolve under the real (non-symlink) directory.
		resolvedReal, _ := filepath.EvalSymlinks(real)
		if filepath.Dir(got) != resolvedReal {
			t.Errorf("Validate result %q not under resolved real root %q", got, resolvedReal)
		}
	}
}

func TestContainmentIsLexical(t *testing.T) {
	root := t.TempDir()
	got, err := Validate(root, "a/b/../c")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := filepath.Join(root, "a", "c")
	if got != want {
		t.Errorf("Validate = %q, want %q", got, want)
	}
}
