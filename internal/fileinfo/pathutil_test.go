package fileinfo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJoinParentBaseWithSMB(t *testing.T) {
	base := "smb://host/share/dir"
	joined := JoinPath(base, "file.txt")
	if joined != "smb://host/share/dir/file.txt" {
		t.Fatalf("JoinPath(smb) got %q", joined)
	}
	parent, ok := ParentPath(joined)
	if !ok || parent != base {
		t.Fatalf("ParentPath(smb) got %q %v, want %q", parent, ok, base)
	}
	if last := BaseName(joined); last != "file.txt" {
		t.Fatalf("BaseName(smb) got %q", last)
	}
	if _, ok := ParentPath("smb://host/share"); ok {
		t.Fatal("share root should have no parent")
	}
}

func TestJoinParentBaseWithLocal(t *testing.T) {
	joined := JoinPath("/tmp/dir", "file.txt")
	if joined != "/tmp/dir/file.txt" {
		t.Fatalf("JoinPath(local) got %q", joined)
	}
	parent, ok := ParentPath(joined)
	if !ok || parent != "/tmp/dir" {
		t.Fatalf("ParentPath(local) got %q", parent)
	}
	if last := BaseName(joined); last != "file.txt" {
		t.Fatalf("BaseName(local) got %q", last)
	}
	if _, ok := ParentPath("/"); ok {
		t.Fatal("root should have no parent")
	}
}

func TestCanonicalizeResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Canonicalize(link + "/.")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.EvalSymlinks(real)
	if got != want {
		t.Fatalf("Canonicalize got %q, want %q", got, want)
	}

	if _, err := Canonicalize(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing path")
	}

	smb, err := Canonicalize("smb://host/share/a/../b/")
	if err != nil || smb != "smb://host/share/b" {
		t.Fatalf("Canonicalize(smb) got %q %v", smb, err)
	}
}
