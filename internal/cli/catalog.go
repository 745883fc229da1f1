package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/scirap/internal/catalog"
	"github.com/ppiankov/scirap/internal/model"
)

var showKind string

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect, export and validate rule catalogs",
	Long: `The rule catalog holds the evaluation criteria and their keyword lists.
The built-in catalog is used unless --catalog or catalog.path selects a
YAML file. Export the built-in catalog to start a custom one.`,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List catalog rules",
	Example: `  scirap catalog show
  scirap catalog show --kind methodological
  scirap catalog show --catalog my-catalog.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyIngestFlags(cmd.Flags(), cfg)

		cat, err := loadCatalog(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		kinds := cat.Kinds()
		if showKind != "" {
			kind, err := model.ParseKind(showKind)
			if err != nil {
				return err
			}
			kinds = []model.Kind{kind}
		}

		out := cmd.OutOrStdout()
		for _, kind := range kinds {
			fmt.Fprintf(out, "%s (%s), %d rules\n", kind.Title(), kind.Code(), cat.Count(kind))
			for _, rule := range cat.Rules(kind) {
				fmt.Fprintf(out, "  %-5s %s\n", rule.Key, rule.Question)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the catalog as YAML (stdout when no path is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyIngestFlags(cmd.Flags(), cfg)

		cat, err := loadCatalog(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		data, err := catalog.Marshal(cat)
		if err != nil {
			return err
		}

		if len(args) == 0 || args[0] == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %d rules to %s\n", cat.Len(), args[0])
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a YAML catalog against the schema and rule constraints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(args[0])
		if err != nil {
			var verr *catalog.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintf(os.Stderr, "✗ %s\n", p)
				}
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ %s is valid\n", args[0])
		for _, kind := range cat.Kinds() {
			fmt.Fprintf(out, "  %-16s %d rules\n", kind, cat.Count(kind))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogValidateCmd)

	catalogShowCmd.Flags().StringVar(&showKind, "kind", "", "only show one rubric (reporting, methodological, relevance)")
	catalogShowCmd.Flags().StringVar(&catalogPath, "catalog", "", "rule catalog YAML (default: built-in catalog)")
	catalogExportCmd.Flags().StringVar(&catalogPath, "catalog", "", "rule catalog YAML (default: built-in catalog)")
}
