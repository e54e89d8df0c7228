package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gbrlpzz/star-hash/pkg/errors"
)

func TestEmbeddedCatalogLoads(t *testing.T) {
	stars, err := Embedded().Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(stars) < 100 {
		t.Fatalf("embedded catalog has %d stars, want >= 100", len(stars))
	}

	byID := make(map[string]Star, len(stars))
	for _, s := range stars {
		if _, dup := byID[s.ID]; dup {
			t.Errorf("duplicate catalog id %q", s.ID)
		}
		byID[s.ID] = s
		if s.Mag > 4.0 {
			t.Errorf("%s has magnitude %v, catalog cutoff is 4.0", s.ID, s.Mag)
		}
	}

	polaris, ok := byID["Polaris"]
	if !ok {
		t.Fatal("Polaris missing from embedded catalog")
	}
	if polaris.DecDeg < 89 || polaris.DecDeg > 89.5 {
		t.Errorf("Polaris dec = %v, want ~89.26", polaris.DecDeg)
	}

	sirius, ok := byID["Sirius"]
	if !ok {
		t.Fatal("Sirius missing from embedded catalog")
	}
	if sirius.Mag > -1 {
		t.Errorf("Sirius magnitude = %v, want ~ -1.46", sirius.Mag)
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "nope.csv")}.Load()
	if !errors.Is(err, errors.ErrCodeCatalogUnreadable) {
		t.Errorf("missing file: err = %v, want CATALOG_UNREADABLE", err)
	}
}

func TestFileSourceMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad header", "X,Y,Z,W\nVega,279.2,38.8,0.03\n"},
		{"non-numeric RA", "Name,RA_Degrees,Dec_Degrees,Magnitude\nVega,abc,38.8,0.03\n"},
		{"RA out of range", "Name,RA_Degrees,Dec_Degrees,Magnitude\nVega,400,38.8,0.03\n"},
		{"Dec out of range", "Name,RA_Degrees,Dec_Degrees,Magnitude\nVega,279.2,95,0.03\n"},
		{"empty", "Name,RA_Degrees,Dec_Degrees,Magnitude\n"},
		{"wrong arity", "Name,RA_Degrees,Dec_Degrees,Magnitude\nVega,279.2\n"},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "catalog.csv")
		if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := FileSource{Path: path}.Load()
		if !errors.Is(err, errors.ErrCodeCatalogUnreadable) {
			t.Errorf("%s: err = %v, want CATALOG_UNREADABLE", tt.name, err)
		}
	}
}

func TestFileSourceValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	body := "Name,RA_Degrees,Dec_Degrees,Magnitude\nVega,279.2350,38.7840,0.03\nHR1,0.1,-5.0,3.9\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	stars, err := FileSource{Path: path}.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(stars) != 2 || stars[0].ID != "Vega" || stars[1].ID != "HR1" {
		t.Errorf("unexpected stars: %+v", stars)
	}
}
