package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/taxonomy"
)

func newTaxonomyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Inspect the category taxonomies",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List dimensions with their entry counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, _, comp, err := a.components()
				if err != nil {
					return err
				}
				for _, dim := range comp.Dimensions {
					tax := comp.Taxonomies[dim]
					fmt.Fprintf(a.out, "%-12s %3d entries  %s\n", dim, tax.Len(), tax.Identity()[:12])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show DIMENSION",
			Short: "Print one taxonomy as YAML",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, _, comp, err := a.components()
				if err != nil {
					return err
				}
				tax, ok := comp.Taxonomies[args[0]]
				if !ok {
					return fmt.Errorf("%w: %q", internalerr.ErrUnknownDimension, args[0])
				}
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(2)
				if err := enc.Encode(describe(tax)); err != nil {
					return err
				}
				return enc.Close()
			},
		},
	)
	return cmd
}

type entryDoc struct {
	Main     string   `yaml:"main"`
	Sub      string   `yaml:"sub"`
	Keywords []string `yaml:"keywords,flow"`
}

type taxonomyDoc struct {
	Name       string                       `yaml:"name"`
	Identity   string                       `yaml:"identity"`
	Extraction taxonomy.Extraction          `yaml:"extraction"`
	Entries    []entryDoc                   `yaml:"entries"`
	Insights   map[string]taxonomy.Template `yaml:"insights,omitempty"`
}

func describe(tax *taxonomy.Taxonomy) taxonomyDoc {
	doc := taxonomyDoc{
		Name:       tax.Name(),
		Identity:   tax.Identity(),
		Extraction: tax.Extraction(),
		Insights:   tax.Insights(),
	}
	for _, e := range tax.Entries() {
		doc.Entries = append(doc.Entries, entryDoc{Main: e.Main, Sub: e.Sub, Keywords: e.Keywords})
	}
	return doc
}
