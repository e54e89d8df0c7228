// Package pipeline wires the catalog, the ephemeris provider, the scene
// composer and the SVG sink into a single render entry point shared by the
// CLI and the HTTP server.
package pipeline

import (
	"github.com/gbrlpzz/star-hash/pkg/catalog"
	"github.com/gbrlpzz/star-hash/pkg/ephem"
	"github.com/gbrlpzz/star-hash/pkg/render/svgsink"
	"github.com/gbrlpzz/star-hash/pkg/scene"
)

// Result bundles the rendered document with composition stats.
type Result struct {
	SVG           []byte
	Warnings      []string
	VisibleStars  int
	VisibleBodies int
}

// Runner renders stamps against a catalog loaded once at construction.
// Safe for concurrent use.
type Runner struct {
	composer *scene.Composer
}

// New loads the star catalog from src and builds a runner over it. A
// catalog that cannot be read is fatal; there is no partial stamp without
// stars.
func New(src catalog.Source, provider ephem.Provider) (*Runner, error) {
	stars, err := src.Load()
	if err != nil {
		return nil, err
	}
	return &Runner{composer: scene.NewComposer(stars, provider)}, nil
}

// Stars reports the size of the loaded catalog.
func (r *Runner) Stars() int {
	return len(r.composer.Stars)
}

// Render composes and serializes one stamp.
func (r *Runner) Render(q scene.Query) (*Result, error) {
	sc, err := r.composer.Compose(q)
	if err != nil {
		return nil, err
	}
	return &Result{
		SVG:           svgsink.Render(sc),
		Warnings:      sc.Warnings,
		VisibleStars:  sc.VisibleStars,
		VisibleBodies: sc.VisibleBodies,
	}, nil
}
