package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cldf-datasets/bonmannsymmetrical/pkg/cldf"
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// createDBCmd returns the createdb command
func createDBCmd(o *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "createdb <db-path>",
		Short: "Load the dataset into a SQLite database",
		Long: `Run the conversion and load every CLDF table into a new SQLite database.

List-valued references are also expanded into association tables. An
existing database file is refused unless --force is given, and is only
replaced once the new database is complete.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to replace it)", path)
			}

			_, ds, err := o.build(false)
			if err != nil {
				return err
			}
			if err := ds.Validate(); err != nil {
				return err
			}

			counts, err := loadInto(cmd.Context(), path, ds)
			if err != nil {
				return err
			}
			fields := []zap.Field{zap.String("path", path)}
			for _, t := range ds.Tables() {
				fields = append(fields, zap.Int(t.Component, counts[t.Component]))
			}
			o.logger.Info("database created", fields...)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing database file")

	return cmd
}

// loadInto loads ds into a temporary database next to path and renames it
// over path once the load has committed. On failure path is untouched and
// the temporary file is removed.
func loadInto(ctx context.Context, path string, ds *cldf.Dataset) (db.Counts, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".createdb-*.sqlite")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	conn, err := db.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	counts, err := db.Load(ctx, conn, ds)
	if cerr := conn.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, err
	}
	return counts, nil
}
