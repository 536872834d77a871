package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	return home
}

func TestExpandHome(t *testing.T) {
	home := setHome(t)
	if got, err := ExpandHome("/tmp"); err != nil || got != "/tmp" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if got, err := ExpandHome(""); err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
	p, err := ExpandHome("~")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p != home {
		t.Fatalf("expected %q, got %q", home, p)
	}
	exp, err := ExpandHome("~/.cache/huggingface")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if filepath.Base(exp) != "huggingface" {
		t.Fatalf("unexpected expanded path: %q", exp)
	}
}

func TestResolvePath(t *testing.T) {
	home := setHome(t)
	if _, err := ResolvePath(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	got, err := ResolvePath("~/altd.yaml")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != filepath.Join(home, "altd.yaml") {
		t.Fatalf("unexpected path %q", got)
	}
	rel, err := ResolvePath("altd.yaml")
	if err != nil || !filepath.IsAbs(rel) {
		t.Fatalf("expected absolute path, got %q err=%v", rel, err)
	}
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "altd.toml")
	if err := os.WriteFile(present, []byte("addr=\":1\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok := FirstExisting(filepath.Join(dir, "missing.yaml"), dir, present)
	if !ok || got != present {
		t.Fatalf("expected %q, got %q ok=%v", present, got, ok)
	}
	if _, ok := FirstExisting(filepath.Join(dir, "nope")); ok {
		t.Fatalf("expected no match")
	}
	if !PathExists(dir) || PathExists(filepath.Join(dir, "nope")) {
		t.Fatalf("PathExists mismatch")
	}
}
