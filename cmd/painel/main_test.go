package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := "Projeto,Progresso,Status\nAlpha,50,Em andamento\nBeta,100,Concluído\nGamma,,Impedimento\n"
	if err := os.WriteFile(filepath.Join(dir, "dados.csv"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_DIR", dir)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "absent.env")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	dir := writeData(t)
	out := filepath.Join(dir, "out.csv")

	if _, err := run(t, "export", "--status", "Impedimento", "--out", out); err != nil {
		t.Fatalf("export error = %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Projeto,Progresso,Status\nGamma,0,Impedimento\n"; string(got) != want {
		t.Errorf("export = %q, want %q", got, want)
	}
}

func TestSummaryCommand(t *testing.T) {
	writeData(t)

	out, err := run(t, "summary")
	if err != nil {
		t.Fatalf("summary error = %v", err)
	}
	for _, want := range []string{"Projetos Ativos", "Alpha", "Gamma", "dados.csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSummaryCommand_NoData(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())

	out, err := run(t, "summary")
	if err == nil {
		t.Fatal("summary expected error without data")
	}
	if !strings.Contains(out, "dados.xlsx.xlsx, dados.xlsx ou dados.csv") {
		t.Errorf("output = %q", out)
	}
}
