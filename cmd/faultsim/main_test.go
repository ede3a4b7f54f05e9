package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveCircuitPathTriesExactPathFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mycircuit.v")
	writeFile(t, path, "module m (a, y); input a; output y; buf g1(y, a); endmodule\n")

	got, err := resolveCircuitPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Fatalf("resolveCircuitPath(%q) = %q, want %q", path, got, path)
	}
}

func TestResolveCircuitPathAppendsSuffix(t *testing.T) {
	dir := t.TempDir()
	withSuffix := filepath.Join(dir, "mycircuit.v")
	writeFile(t, withSuffix, "module m (a, y); input a; output y; buf g1(y, a); endmodule\n")

	omitted := filepath.Join(dir, "mycircuit")
	got, err := resolveCircuitPath(omitted)
	if err != nil {
		t.Fatal(err)
	}
	if got != withSuffix {
		t.Fatalf("resolveCircuitPath(%q) = %q, want %q", omitted, got, withSuffix)
	}
}

func TestResolveCircuitPathMissingReturnsError(t *testing.T) {
	dir := t.TempDir()
	if _, err := resolveCircuitPath(filepath.Join(dir, "nope")); err == nil {
		t.Fatal("expected an error when neither the given path nor path+.v exists")
	}
}

// TestRunFaultsimAcceptsCircuitPathWithoutSuffix drives the CLI's own
// pipeline end to end (§6: "circuit argument may omit the .v suffix")
// against a circuit named without its .v extension.
func TestRunFaultsimAcceptsCircuitPathWithoutSuffix(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	writeFile(t, filepath.Join(dir, "buf1.v"), "module buf1 (a, y); input a; output y; buf g1(y, a); endmodule\n")
	if err := os.MkdirAll(filepath.Join(dir, "testcases"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "testcases", "buf1.in"), "a=0\na=1\n")

	outPath := filepath.Join(dir, "out.ans")
	if err := runFaultsim("buf1", outPath); err != nil {
		t.Fatalf("runFaultsim with suffix-omitted circuit path: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("expected answer file to be written: %v", err)
	}
	if _, err := os.Stat(outPath + ".sha"); err != nil {
		t.Fatalf("expected digest file to be written: %v", err)
	}
}
