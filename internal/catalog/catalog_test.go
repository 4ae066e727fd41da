package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()

	if len(c.Genres) != 16 {
		t.Errorf("expected 16 genres, got %d", len(c.Genres))
	}
	if c.Genres[len(c.Genres)-1] != DefaultOther {
		t.Errorf("expected %q last, got %q", DefaultOther, c.Genres[len(c.Genres)-1])
	}
	if !c.Contains("Krimi & Thriller") {
		t.Error("Contains(Krimi & Thriller) = false")
	}
	if c.Contains("Kochbuch") {
		t.Error("Contains(Kochbuch) = true")
	}

	// callers must not be able to change the built-in list
	c.Genres[0] = "changed"
	if Default().Genres[0] != "Roman" {
		t.Error("Default() shares its backing array")
	}
}

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "genres.yaml")

	yamlContent := `---
genres:
  - Novel
  - " Crime "
  - Novel
  - Other
  - ""
other: Other
`

	err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	c, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"Novel", "Crime", "Other"}
	if !reflect.DeepEqual(c.Genres, expected) {
		t.Errorf("Genres = %v, expected %v", c.Genres, expected)
	}
	if c.Other != "Other" {
		t.Errorf("Other = %q", c.Other)
	}
}

func TestLoaderLoadDefaultsOther(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "genres.yaml")

	if err := os.WriteFile(yamlPath, []byte("genres: [Roman]\n"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	c, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Other != DefaultOther || !c.Contains(DefaultOther) {
		t.Errorf("expected %q as other, got %+v", DefaultOther, c)
	}
}

func TestLoaderLoadErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "genres: [unclosed"},
		{name: "no genres", content: "other: Anderes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("Failed to create test YAML file: %v", err)
			}
			if _, err := NewLoader(path).Load(); err == nil {
				t.Error("Load() expected error")
			}
		})
	}

	if _, err := NewLoader(filepath.Join(tmpDir, "missing.yaml")).Load(); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestResolve(t *testing.T) {
	c, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve(\"\") error = %v", err)
	}
	if !reflect.DeepEqual(c, Default()) {
		t.Errorf("Resolve(\"\") = %+v", c)
	}
}
