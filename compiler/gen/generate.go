package gen

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Gen renders the graph with the configured generator. Types are rendered
// in parallel; the resulting files are sorted by path so the output does not
// depend on scheduling.
func (g *Graph) Gen(ctx context.Context) (*Project, error) {
	if g.Config == nil || g.Generator == nil {
		return nil, NewConfigError("Generator", nil, "no generator set: use WithGenerator")
	}
	var (
		start   = time.Now()
		run     = uuid.NewString()
		workers = g.Workers
		results = make([][]*File, len(g.Nodes)+1)
	)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(workers)
	for i, t := range g.Nodes {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files, err := g.Generator.GenType(t)
			if err != nil {
				return NewGenerationError("render", t.Name, "generate type", err)
			}
			slog.Debug("type rendered", "run", run, "type", t.Name, "files", len(files))
			results[i] = files
			return nil
		})
	}
	errg.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		files, err := g.Generator.GenGraph(g)
		if err != nil {
			return NewGenerationError("render", "", "generate graph", err)
		}
		results[len(g.Nodes)] = files
		return nil
	})
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	p := &Project{Name: g.ArtifactID}
	seen := make(map[string]bool)
	for _, files := range results {
		for _, f := range files {
			if seen[f.Path] {
				return nil, NewGenerationError("package", f.Path, "file generated twice", nil)
			}
			seen[f.Path] = true
			p.Files = append(p.Files, f)
		}
	}
	sort.Slice(p.Files, func(i, j int) bool { return p.Files[i].Path < p.Files[j].Path })
	slog.Info("project generated",
		"run", run,
		"generator", g.Generator.Name(),
		"types", len(g.Nodes),
		"files", len(p.Files),
		"diagnostics", len(g.Diagnostics),
		"duration", time.Since(start),
	)
	return p, nil
}
