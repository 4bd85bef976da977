package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/halcyonlabs/halcyon/internal/content"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Validate and inspect the site content document",
}

var contentScriptsDir string

var contentValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a content document",
	Long: `Validate a content document against the schema the site expects.
With no path the embedded document is checked, which is useful as a
build-time sanity check.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, path, err := loadDocument(cmd, args)
		if err != nil {
			return err
		}
		fmt.Printf("%s: valid (%d history, %d pillars, %d milestones, %d testimonials)\n",
			path, len(doc.History), len(doc.Pillars), len(doc.Timeline), len(doc.Testimonials))
		return nil
	},
}

var contentShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print a summary of a content document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := loadDocument(cmd, args)
		if err != nil {
			return err
		}

		title := cases.Title(language.English)

		fmt.Printf("%s - %s\n", doc.Company.Name, doc.Company.Tagline)
		fmt.Printf("Founded %d (%d years active)\n\n", doc.Company.Founded, doc.Derived.YearsActive)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SECTION\tENTRIES\tDETAIL")
		fmt.Fprintf(w, "history\t%d\t%s .. %s\n", len(doc.History), doc.History[0].Year, doc.History[len(doc.History)-1].Year)
		for _, p := range doc.Pillars {
			fmt.Fprintf(w, "pillar\t\t%s: %s\n", title.String(string(p.Kind)), p.Title)
		}
		fmt.Fprintf(w, "timeline\t%d\t%s .. %s\n", len(doc.Timeline), doc.Timeline[0].Year, doc.Timeline[len(doc.Timeline)-1].Year)
		fmt.Fprintf(w, "testimonials\t%d\t%s\n", len(doc.Testimonials), doc.Attribution(0))
		fmt.Fprintf(w, "kpis\t%d\t\n", len(doc.KPIs))
		return w.Flush()
	},
}

func loadDocument(cmd *cobra.Command, args []string) (*content.Document, string, error) {
	path := ""
	label := "embedded document"
	if len(args) > 0 {
		path = args[0]
		label = path
	}

	loader, err := content.NewLoader(afero.NewOsFs(), contentScriptsDir)
	if err != nil {
		return nil, "", err
	}
	doc, err := loader.Load(cmd.Context(), path)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", label, err)
	}
	return doc, label, nil
}

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(contentValidateCmd)
	contentCmd.AddCommand(contentShowCmd)

	contentCmd.PersistentFlags().StringVar(&contentScriptsDir, "scripts", "", "Directory of rule scripts overriding the embedded rules")
}
