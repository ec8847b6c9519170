package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inferlab/forkpoint"
	"github.com/inferlab/forkpoint/pkg/control"
	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/feature"
	"github.com/inferlab/forkpoint/pkg/trace"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a demo branch topology against the configured store",
	Long: `Builds a root trace from a hierarchical feature model, clones it into
independent lineages with resampled sites, collects each lineage's
log-density, then kills every branch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, s, err := loadSetup(cmd)
		if err != nil {
			return err
		}

		clones, _ := cmd.Flags().GetInt("clones")
		seed, _ := cmd.Flags().GetUint64("seed")

		rt := forkpoint.New(
			forkpoint.WithDialer(s.dialer),
			forkpoint.WithLogger(s.logger),
			forkpoint.WithMetrics(s.metrics),
			forkpoint.WithWaitTimeout(cfg.WaitTimeout.Std()),
		)

		return runDemo(cmd.Context(), rt, s, clones, seed)
	},
}

func init() {
	runCmd.Flags().Int("clones", 3, "Number of lineages to fan out")
	runCmd.Flags().Uint64("seed", 0, "Seed for the resampling stream (0 draws one)")
	rootCmd.AddCommand(runCmd)
}

// runDemo drives one full protocol round: clone-and-resample at a feature
// site, read back every child's density, kill every branch.
func runDemo(ctx context.Context, rt *forkpoint.Runtime, s *setup, clones int, seed uint64) error {
	tr, site, err := buildDemoTrace(seed)
	if err != nil {
		return err
	}
	rootID := tr.ID()
	s.logger.Info("built root trace", "trace", rootID, "sites", len(tr.Sites()))

	msg, err := tr.Message(site)
	if err != nil {
		return err
	}

	cmd := &control.ResampleCloneContinue{Count: clones}
	if seed != 0 {
		cmd.Seed = &seed
	}
	if _, err := rt.AddControlPoint(ctx, rootID, site, tr, cmd, msg); err != nil {
		return fmt.Errorf("control point failed: %w", err)
	}

	pairs, err := awaitPairs(ctx, rt, clones)
	if err != nil {
		return err
	}

	for _, p := range pairs {
		if err := rt.Wake(ctx, p.Child, site, &control.LogPdf{}); err != nil {
			return err
		}
	}

	for _, p := range pairs {
		lp, err := awaitLogPdf(ctx, rt, p.Child, site)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s -> %s  log_pdf=%.6f\n", p.Parent, p.Child, lp)

		if err := rt.Wake(ctx, p.Child, site, &control.Kill{}); err != nil {
			return err
		}
	}

	rt.Shutdown()
	s.logger.Info("all branches drained")
	return nil
}

// buildDemoTrace records one resamplable site drawn from a Real feature's
// mixture, plus an observation against it.
func buildDemoTrace(seed uint64) (*trace.Trace, domain.Site, error) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	src := rand.NewPCG(seed, 0)

	f := feature.NewReal("height")
	shared := f.SampleShared(src)
	group, err := f.SampleGroup(src, shared, 4)
	if err != nil {
		return nil, "", err
	}
	component := rand.New(src).IntN(4)
	d, err := f.ValueDist(src, group, component)
	if err != nil {
		return nil, "", err
	}
	value := d.Rand()

	tr := trace.New(domain.NewTraceID())
	site := domain.Site(f.Name())
	if err := tr.Add(site, &domain.Message{
		Type:  domain.MessageSample,
		Value: value,
		Dist:  domain.DistSpec{Kind: domain.DistNormal, Loc: 0, Scale: 1},
	}); err != nil {
		return nil, "", err
	}
	if err := tr.Add("obs", &domain.Message{
		Type:  domain.MessageObserve,
		Value: value + 0.1,
		Dist:  domain.DistSpec{Kind: domain.DistNormal, Loc: value, Scale: 0.5},
	}); err != nil {
		return nil, "", err
	}
	return tr, site, nil
}

func awaitPairs(ctx context.Context, rt *forkpoint.Runtime, want int) ([]domain.Pair, error) {
	deadline := time.After(10 * time.Second)
	for {
		pairs, err := rt.Pairs(ctx)
		if err != nil {
			return nil, err
		}
		if len(pairs) >= want {
			return pairs, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("only %d of %d lineages registered", len(pairs), want)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func awaitLogPdf(ctx context.Context, rt *forkpoint.Runtime, id domain.TraceID, site domain.Site) (float64, error) {
	deadline := time.After(10 * time.Second)
	for {
		lp, err := rt.LogPdfResult(ctx, id, site)
		if err == nil {
			return lp, nil
		}
		if !errors.Is(err, domain.ErrMsgNotFound) {
			return 0, err
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-deadline:
			return 0, fmt.Errorf("no log-density published for %s at %s", id, site)
		case <-time.After(20 * time.Millisecond):
		}
	}
}
