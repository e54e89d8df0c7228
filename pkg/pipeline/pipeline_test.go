package pipeline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gbrlpzz/star-hash/pkg/catalog"
	"github.com/gbrlpzz/star-hash/pkg/ephem"
	"github.com/gbrlpzz/star-hash/pkg/errors"
	"github.com/gbrlpzz/star-hash/pkg/scene"
)

type failingSource struct{}

func (failingSource) Load() ([]catalog.Star, error) {
	return nil, errors.New(errors.ErrCodeCatalogUnreadable, "fixture failure")
}

func TestNewCatalogFailureFatal(t *testing.T) {
	_, err := New(failingSource{}, ephem.NewMeeusProvider())
	if !errors.Is(err, errors.ErrCodeCatalogUnreadable) {
		t.Fatalf("expected CATALOG_UNREADABLE, got %v", err)
	}
}

func TestRenderProducesStamp(t *testing.T) {
	runner, err := New(catalog.Embedded(), ephem.NewMeeusProvider())
	if err != nil {
		t.Fatalf("building runner: %v", err)
	}
	if runner.Stars() < 100 {
		t.Fatalf("embedded catalog has %d stars, want at least 100", runner.Stars())
	}

	q := scene.Query{
		LatDeg: 41.9028,
		LonDeg: 12.4964,
		Time:   time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC),
		SizePx: 472,
	}
	res, err := runner.Render(q)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := string(res.SVG)
	if !strings.HasPrefix(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatal("output is not an SVG document")
	}
	if res.VisibleStars == 0 {
		t.Fatal("expected visible stars over Rome at night")
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
}

func TestRenderDeterministic(t *testing.T) {
	runner, err := New(catalog.Embedded(), ephem.NewMeeusProvider())
	if err != nil {
		t.Fatalf("building runner: %v", err)
	}
	q := scene.Query{
		LatDeg: -33.8688,
		LonDeg: 151.2093,
		Time:   time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC),
		SizePx: 944,
	}
	a, err := runner.Render(q)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := runner.Render(q)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(a.SVG, b.SVG) {
		t.Fatal("identical queries produced different documents")
	}
}

func TestRenderRejectsBadQuery(t *testing.T) {
	runner, err := New(catalog.Embedded(), ephem.NewMeeusProvider())
	if err != nil {
		t.Fatalf("building runner: %v", err)
	}
	_, err = runner.Render(scene.Query{LatDeg: 120, LonDeg: 0, Time: time.Now(), SizePx: 472})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
