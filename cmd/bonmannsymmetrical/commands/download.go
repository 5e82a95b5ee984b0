package commands

import (
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/glottolog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// downloadCmd returns the download command
func downloadCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Fetch the Glottolog gazetteer dump",
		Long: `Fetch the Glottolog languoid dump into the configured gazetteer path.

An existing file is kept; delete it to download again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := glottolog.NewDownloader(o.logger)
			fetched, err := d.Ensure(cmd.Context(), o.cfg.Glottolog.URL, o.cfg.GlottologPath())
			if err != nil {
				return err
			}
			o.logger.Info("gazetteer ready", zap.String("path", o.cfg.GlottologPath()), zap.Bool("downloaded", fetched))
			return nil
		},
	}
}
