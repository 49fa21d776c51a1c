package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/xtreamctl/pkg/xtream"
)

var categoriesFilter struct {
	live   bool
	vod    bool
	series bool
}

// categoriesCmd lists the panel's categories.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	Long: `List the panel's content categories. With no type flag, live
categories are listed. When both --vod and --series are given, only VOD
categories are fetched; the panel API treats the two as mutually
exclusive within one listing call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newPanelClient()
		if err != nil {
			return err
		}

		categories, err := client.GetCategories(commandContext(cmd), xtream.CategoryFilter{
			Live:   categoriesFilter.live,
			VOD:    categoriesFilter.vod,
			Series: categoriesFilter.series,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPARENT")
		for _, category := range categories {
			fmt.Fprintf(w, "%s\t%s\t%d\n", category.CategoryID, category.CategoryName, category.ParentID.Int())
		}
		return w.Flush()
	},
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesFilter.live, "live", false, "list live categories")
	categoriesCmd.Flags().BoolVar(&categoriesFilter.vod, "vod", false, "list VOD categories")
	categoriesCmd.Flags().BoolVar(&categoriesFilter.series, "series", false, "list series categories")
	rootCmd.AddCommand(categoriesCmd)
}
