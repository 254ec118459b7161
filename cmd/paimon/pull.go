package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OCharnyshevich/paimon/internal/pull"
)

func newPullCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Rebuild the download directory from upstream",
		Long: `Remove the download directory and populate it again:

  <download-dir>/ExcelBinOutput/        checked out from the excel source
  <download-dir>/TextMap/TextMapEN.json downloaded from the text map url`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := pull.NewHTTPClient(a.cfg.Retries, a.log)
			p := pull.New(a.cfg.DownloadDir, a.cfg.ExcelSource, a.cfg.TextMapURL, nil, client, a.log)
			if err := p.Run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pulled %s and %s\n", p.ExcelPath(), p.TextMapPath())
			return nil
		},
	}
	cmd.Flags().StringVar(&a.cfg.DownloadDir, "download-dir", a.cfg.DownloadDir, "download directory (wiped on every pull)")
	cmd.Flags().StringVar(&a.cfg.ExcelSource, "excel-source", a.cfg.ExcelSource, "go-getter address of the ExcelBinOutput tree")
	cmd.Flags().StringVar(&a.cfg.TextMapURL, "textmap-url", a.cfg.TextMapURL, "url of TextMapEN.json")
	cmd.Flags().IntVar(&a.cfg.Retries, "retries", a.cfg.Retries, "HTTP retries for the text map download")
	return cmd
}
