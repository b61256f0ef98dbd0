package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-mdr/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the resistance catalog",
		Long: `Print the watched genes with their drug class, acquired flag and known
resistance markers. Use --yaml to dump a catalog file that can be edited and
passed back with --catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			c, err := loadCatalog(logger)
			if err != nil {
				return err
			}
			if asYAML {
				return writeCatalogYAML(cmd.OutOrStdout(), c)
			}
			return writeCatalogTable(cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the catalog as YAML")
	return cmd
}

func writeCatalogYAML(w io.Writer, c *catalog.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalog.File{Genes: c.Genes()}); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return enc.Close()
}

func writeCatalogTable(w io.Writer, c *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# catalog: %s\n", c.Name())
	fmt.Fprintln(tw, "Gene\tDrug\tType\tMarkers")
	for _, g := range c.Genes() {
		kind := "point"
		markers := strings.Join(g.Markers, ",")
		if g.Acquired {
			kind = "acquired"
			markers = "-"
		} else if markers == "" {
			markers = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.Name, g.Drug, kind, markers)
	}
	return tw.Flush()
}
