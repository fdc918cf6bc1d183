// Package scanner inspects a project directory: it classifies the tech
// stack, renders the directory tree and assembles a ProjectInfo.
package scanner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tramy-dev/tramy/internal/probe"
)

// fileProbeLimit bounds concurrent file-rule evaluations.
const fileProbeLimit = 8

// Classify detects the technologies used under the probe root.
//
// The dependency pass runs first over the table, then the file pass probes
// every technology not yet detected. Technologies appear once, dependency
// detections first, each pass in table order. An empty project yields an
// empty slice. The only error is context cancellation.
func Classify(ctx context.Context, p *probe.Probe) ([]string, error) {
	return classify(ctx, p, LoadManifests(p).Deps)
}

func classify(ctx context.Context, p *probe.Probe, deps map[string]struct{}) ([]string, error) {
	detected := make([]bool, len(Techs))
	out := make([]string, 0)

	for i, t := range Techs {
		for _, r := range t.Rules {
			if r.Kind == RuleDep && hasDep(deps, r.Pattern) {
				detected[i] = true
				out = append(out, t.ID)
				break
			}
		}
	}

	// File probes are read-only and commute; results land in per-index
	// slots so the merge below stays in table order.
	hits := make([]bool, len(Techs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fileProbeLimit)
	for i, t := range Techs {
		if detected[i] {
			continue
		}
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hits[i] = matchFiles(p, t.Rules)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, t := range Techs {
		if hits[i] {
			out = append(out, t.ID)
		}
	}
	return out, nil
}

func matchFiles(p *probe.Probe, rules []Rule) bool {
	for _, r := range rules {
		if r.Kind == RuleFile && len(p.Glob(r.Pattern)) > 0 {
			return true
		}
	}
	return false
}
