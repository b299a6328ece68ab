package main

import (
	"bytes"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smallyu/go-ecdh/internal/crypto/keys"
)

func benchCmd() *cobra.Command {
	var (
		sessions int
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run many exchanges concurrently",
		Long: `Runs --sessions independent exchanges on the configured curve, each with a
fresh responder key pair, and checks that every pair of parties agrees.

On a curve whose order n is not prime, such as toy23, an exchange fails when
the shared point is the point at infinity. Such a failure depends on the
ephemeral scalar, so rerunning the command with fresh randomness may succeed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessions <= 0 {
				return fmt.Errorf("--sessions must be positive, got %d", sessions)
			}
			if workers <= 0 {
				return fmt.Errorf("--workers must be positive, got %d", workers)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			curve, err := cfg.BuildCurve()
			if err != nil {
				return err
			}

			var done atomic.Int64
			start := time.Now()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(workers)
			for i := 0; i < sessions; i++ {
				i := i
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}

					key, err := keys.Generate(curve, nil)
					if err != nil {
						return err
					}
					defer key.Destroy()

					ri, rr, err := runExchange(curve, cfg, key, nil)
					if err != nil {
						return fmt.Errorf("session %d: %w", i, err)
					}
					if !ri.Shared.Equal(rr.Shared) || !bytes.Equal(ri.Key, rr.Key) {
						return fmt.Errorf("session %d: parties disagree", i)
					}
					done.Add(1)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			elapsed := time.Since(start)
			fmt.Fprintf(cmd.OutOrStdout(), "%d exchanges on %s in %s (%s/exchange, %d workers)\n",
				done.Load(), curve, elapsed.Round(time.Millisecond), elapsed/time.Duration(sessions), workers)
			return nil
		},
	}

	cmd.Flags().IntVarP(&sessions, "sessions", "n", 100, "number of exchanges")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.GOMAXPROCS(0), "maximum concurrent exchanges")
	return cmd
}
