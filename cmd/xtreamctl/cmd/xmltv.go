package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var xmltvOutput string

// xmltvCmd downloads the panel's XMLTV EPG document.
var xmltvCmd = &cobra.Command{
	Use:   "xmltv",
	Short: "Download the XMLTV EPG document",
	Long: `Download the panel's full EPG as an XMLTV document via xmltv.php.
These files can be large; prefer writing to a file with -o.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newPanelClient()
		if err != nil {
			return err
		}

		text, err := client.GetXMLTV(commandContext(cmd), xmltvOutput)
		if err != nil {
			return err
		}

		if xmltvOutput == "" {
			fmt.Print(text)
		} else {
			fmt.Printf("XMLTV written to %s (%d bytes)\n", xmltvOutput, len(text))
		}
		return nil
	},
}

func init() {
	xmltvCmd.Flags().StringVarP(&xmltvOutput, "output", "o", "", "write the XMLTV document to this file")
	rootCmd.AddCommand(xmltvCmd)
}
