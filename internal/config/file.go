package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// File is the TOML overlay layout:
//
//	title   = "Monitoramento de Projetos Estratégicos"
//	caption = "Painel de Monitoramento Interno - CGDIN"
//
//	[data]
//	dir        = "/srv/painel"
//	candidates = ["dados.xlsx", "dados.csv"]
//
//	[status_colors]
//	"Cancelado" = "#8e44ad"
type File struct {
	Title        string            `toml:"title"`
	Caption      string            `toml:"caption"`
	Data         FileData          `toml:"data"`
	StatusColors map[string]string `toml:"status_colors"`
}

// FileData is the [data] table of the overlay.
type FileData struct {
	Dir         string   `toml:"dir"`
	Candidates  []string `toml:"candidates"`
	SQLiteTable string   `toml:"sqlite_table"`
}

// ReadFile parses a TOML overlay.
func ReadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// applyFile overlays values from the TOML file. Environment variables that
// were explicitly set keep precedence over the file.
func applyFile(cfg *Config, path string) error {
	f, err := ReadFile(path)
	if err != nil {
		return err
	}

	if f.Title != "" && os.Getenv("DASHBOARD_TITLE") == "" {
		cfg.Dashboard.Title = f.Title
	}
	if f.Caption != "" && os.Getenv("DASHBOARD_CAPTION") == "" {
		cfg.Dashboard.Caption = f.Caption
	}
	if f.Data.Dir != "" && os.Getenv("DATA_DIR") == "" {
		cfg.Data.Dir = f.Data.Dir
	}
	if len(f.Data.Candidates) > 0 && os.Getenv("DATA_CANDIDATES") == "" {
		cfg.Data.Candidates = f.Data.Candidates
	}
	if f.Data.SQLiteTable != "" && os.Getenv("DATA_SQLITE_TABLE") == "" {
		cfg.Data.SQLiteTable = f.Data.SQLiteTable
	}
	if len(f.StatusColors) > 0 {
		cfg.Dashboard.StatusColors = f.StatusColors
	}
	return nil
}
