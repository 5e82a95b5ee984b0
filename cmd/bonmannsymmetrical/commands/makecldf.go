package commands

import (
	"fmt"
	"path/filepath"

	"github.com/cldf-datasets/bonmannsymmetrical/pkg/cldf"
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/dataset"
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/glottolog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// makeCLDFCmd returns the makecldf command
func makeCLDFCmd(o *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "makecldf",
		Short: "Write the CLDF directory and README.md",
		Long: `Convert the raw inputs into a validated CLDF StructureDataset.

Unknown sources and orphan examples are reported and skipped. Use --strict
to fail on malformed citations.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			r, ds, err := o.build(strict)
			if err != nil {
				return err
			}
			if err := ds.Write(o.cfg.CLDFDir()); err != nil {
				return err
			}
			o.logger.Info("cldf written", zap.String("dir", o.cfg.CLDFDir()))

			if o.cfg.Files.Intro == "" {
				return nil
			}
			dest := filepath.Join(o.cfg.Root, "README.md")
			written, err := dataset.WriteReadme(dest, o.cfg.EtcFile(o.cfg.Files.Intro), o.cfg.Title, r)
			if err != nil {
				return err
			}
			if written {
				o.logger.Info("readme written", zap.String("path", dest))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on malformed citations")

	return cmd
}

// build runs the conversion shared by makecldf and createdb.
func (o *options) build(strict bool) (*dataset.Result, *cldf.Dataset, error) {
	cat, err := glottolog.Open(o.cfg.GlottologPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open gazetteer (run download first?): %w", err)
	}
	o.logger.Info("gazetteer loaded", zap.Int("languoids", cat.Len()))

	files := o.cfg.Files
	b := dataset.NewBuilder(cat, o.logger)
	r, err := b.Build(dataset.Inputs{
		Table:      o.cfg.RawFile(files.Table),
		Examples:   o.cfg.RawFile(files.Examples),
		Sources:    o.cfg.RawFile(files.Sources),
		Parameters: o.cfg.EtcFile(files.Parameters),
		Codes:      o.cfg.EtcFile(files.Codes),
	})
	if err != nil {
		return nil, nil, err
	}

	r.Diagnostics.Log(o.logger)
	if errs := r.Diagnostics.Errors(); strict && len(errs) > 0 {
		return nil, nil, fmt.Errorf("%d malformed citations, first: %s", len(errs), errs[0])
	}

	ds, err := dataset.NewCLDF(cldf.Properties{
		ID:       o.cfg.ID,
		Title:    o.cfg.Title,
		License:  o.cfg.License,
		URL:      o.cfg.URL,
		Citation: o.cfg.Citation,
	}, r)
	if err != nil {
		return nil, nil, err
	}
	return r, ds, nil
}
