package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halcyonlabs/halcyon/internal/topicmgr"

	// Imported for their topic registrations.
	_ "github.com/halcyonlabs/halcyon/internal/analytics"
	_ "github.com/halcyonlabs/halcyon/internal/modules/about/topics"
	_ "github.com/halcyonlabs/halcyon/internal/websocket"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Inspect the pub/sub topics the application registers",
}

var (
	listOutputFormat string
	listModuleFilter string
	listScopeFilter  string
)

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered topics",
	Long: `List every topic registered in the application, including the
client actions browsers may send over the WebSocket bridge.

Examples:
  halcyon-cli topics list                    # All topics, table format
  halcyon-cli topics list --format json      # Machine-readable output
  halcyon-cli topics list --module about     # Only the about module's topics
  halcyon-cli topics list --scope framework  # Only framework-level topics`,
	RunE: topicsListHandler,
}

func topicsListHandler(cmd *cobra.Command, args []string) error {
	manager := topicmgr.Default()

	var topicList []topicmgr.Topic
	switch {
	case listModuleFilter != "":
		topicList = manager.ListByModule(listModuleFilter)
	case listScopeFilter != "":
		scope, err := parseScope(listScopeFilter)
		if err != nil {
			return err
		}
		topicList = manager.ListByScope(scope)
	default:
		topicList = manager.List()
	}

	if listModuleFilter != "" && listScopeFilter != "" {
		scope, err := parseScope(listScopeFilter)
		if err != nil {
			return err
		}
		filtered := topicList[:0]
		for _, t := range topicList {
			if t.Scope() == scope {
				filtered = append(filtered, t)
			}
		}
		topicList = filtered
	}

	if len(topicList) == 0 {
		fmt.Println("No topics found")
		return nil
	}

	switch listOutputFormat {
	case "json":
		return displayTopicsJSON(topicList)
	case "table":
		displayTopicsTable(topicList)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q, use 'table' or 'json'", listOutputFormat)
	}
}

func parseScope(s string) (topicmgr.TopicScope, error) {
	switch strings.ToLower(s) {
	case "framework":
		return topicmgr.ScopeFramework, nil
	case "module":
		return topicmgr.ScopeModule, nil
	default:
		return "", fmt.Errorf("invalid scope %q, valid scopes: framework, module", s)
	}
}

func displayTopicsTable(topics []topicmgr.Topic) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCOPE\tMODULE\tDESCRIPTION")
	for _, t := range topics {
		module := t.Module()
		if module == "" {
			module = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name(), t.Scope(), module, t.Description())
	}
	w.Flush()
}

type topicJSON struct {
	Name        string              `json:"name"`
	Scope       topicmgr.TopicScope `json:"scope"`
	Module      string              `json:"module,omitempty"`
	Description string              `json:"description"`
}

func displayTopicsJSON(topics []topicmgr.Topic) error {
	out := make([]topicJSON, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicJSON{
			Name:        t.Name(),
			Scope:       t.Scope(),
			Module:      t.Module(),
			Description: t.Description(),
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	rootCmd.AddCommand(topicsCmd)
	topicsCmd.AddCommand(topicsListCmd)

	topicsListCmd.Flags().StringVarP(&listOutputFormat, "format", "f", "table", "Output format (table, json)")
	topicsListCmd.Flags().StringVarP(&listModuleFilter, "module", "m", "", "Filter topics by module name")
	topicsListCmd.Flags().StringVarP(&listScopeFilter, "scope", "s", "", "Filter topics by scope (framework, module)")
}
