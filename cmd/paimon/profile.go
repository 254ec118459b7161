package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OCharnyshevich/paimon/internal/profile"
)

func newProfileCmd(a *app) *cobra.Command {
	var artifactDir string
	cmd := &cobra.Command{
		Use:   "profile [-- command [args...]]",
		Short: "Plot the memory usage of a run",
		Long: `Sample the resident memory of a run, plot it and clean up the samples.

Without a command the character database generation is profiled in-process.
With a command after "--" that command is started and sampled instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := profile.New(artifactDir, a.cfg.ProfileInterval, a.log)
			p.Stdout = cmd.OutOrStdout()
			p.Stderr = cmd.ErrOrStderr()

			var (
				res    *profile.Result
				runErr error
			)
			if len(args) > 0 {
				res, runErr = p.RunCommand(ctx, args[0], args[1:]...)
			} else {
				res, runErr = p.RunFunc(ctx, "paimon gen", func(ctx context.Context) error {
					_, err := generate(ctx, a.cfg, a.log)
					return err
				})
			}

			// A failed run still gets its plot and leaves no artifacts behind.
			var plotErr error
			if res != nil {
				plotErr = profile.Plot(res.Profile, a.cfg.ProfileOutput, a.cfg.ProfileTitle)
				if plotErr == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "plotted %s\n", a.cfg.ProfileOutput)
				}
			}

			n, cleanErr := profile.Clean(artifactDir)
			if cleanErr == nil {
				a.log.Info("removed profile artifacts", "count", n, "dir", artifactDir)
			}
			return errors.Join(runErr, plotErr, cleanErr)
		},
	}
	addGenFlags(cmd, a.cfg)
	cmd.Flags().StringVar(&a.cfg.ProfileOutput, "profile-output", a.cfg.ProfileOutput, "plot image path")
	cmd.Flags().StringVar(&a.cfg.ProfileTitle, "title", a.cfg.ProfileTitle, "plot title")
	cmd.Flags().DurationVar(&a.cfg.ProfileInterval, "interval", a.cfg.ProfileInterval, "sampling interval")
	cmd.Flags().StringVar(&artifactDir, "artifact-dir", ".", "directory for mprofile_*.dat sample files")
	return cmd
}
