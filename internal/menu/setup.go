package menu

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed assets/*
var assets embed.FS

// ThemeFile is the rofi theme written by Setup.
const ThemeFile = "minhypr.rasi"

var scripts = []struct {
	name string
	desc string
	bind string
}{
	{"launch-menu.sh", "Rofi menu with previews", "ALT SHIFT, M"},
	{"simple-menu.sh", "plain menu without previews", "ALT CTRL, M"},
	{"restore-all.sh", "restore every window", "ALT SHIFT, R"},
}

// SetupResult lists what Setup wrote.
type SetupResult struct {
	Dir   string
	Files []string
}

type assetData struct {
	Binary    string
	ThemePath string
}

// Setup writes the rofi theme and helper scripts into dir. binary is the
// minhypr executable the scripts invoke.
func Setup(dir, binary string) (SetupResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return SetupResult{}, fmt.Errorf("create %s: %w", dir, err)
	}
	data := assetData{Binary: shellQuote(binary), ThemePath: filepath.Join(dir, ThemeFile)}
	result := SetupResult{Dir: dir}

	theme, err := assets.ReadFile("assets/" + ThemeFile)
	if err != nil {
		return SetupResult{}, err
	}
	themePath := filepath.Join(dir, ThemeFile)
	if err := os.WriteFile(themePath, theme, 0o644); err != nil {
		return SetupResult{}, fmt.Errorf("write %s: %w", themePath, err)
	}
	result.Files = append(result.Files, themePath)

	for _, s := range scripts {
		tmpl, err := template.ParseFS(assets, "assets/"+s.name)
		if err != nil {
			return SetupResult{}, fmt.Errorf("parse %s: %w", s.name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return SetupResult{}, fmt.Errorf("render %s: %w", s.name, err)
		}
		path := filepath.Join(dir, s.name)
		if err := os.WriteFile(path, buf.Bytes(), 0o755); err != nil {
			return SetupResult{}, fmt.Errorf("write %s: %w", path, err)
		}
		// WriteFile keeps the mode of an existing file.
		if err := os.Chmod(path, 0o755); err != nil {
			return SetupResult{}, fmt.Errorf("chmod %s: %w", path, err)
		}
		result.Files = append(result.Files, path)
	}
	return result, nil
}

// PrintSetup describes the generated files and suggests Hyprland binds.
func PrintSetup(w io.Writer, result SetupResult) {
	fmt.Fprintf(w, "Rofi configuration written to %s\n", result.Dir)
	fmt.Fprintln(w, "Scripts:")
	for _, s := range scripts {
		fmt.Fprintf(w, "  %s - %s\n", filepath.Join(result.Dir, s.name), s.desc)
	}
	fmt.Fprintln(w, "\nSuggested Hyprland binds:")
	for _, s := range scripts {
		fmt.Fprintf(w, "  bind = %s, exec, %s\n", s.bind, filepath.Join(result.Dir, s.name))
	}
}

func shellQuote(s string) string {
	var b bytes.Buffer
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
