package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// statusCmd authenticates against the panel and prints an account and
// server summary.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Authenticate and show account and server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newPanelClient()
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		info, err := client.Authenticate(ctx)
		if err != nil {
			return err
		}

		user := info.UserInfo
		server := info.ServerInfo

		fmt.Printf("Account\n")
		fmt.Printf("  Username:        %s\n", user.Username)
		fmt.Printf("  Status:          %s\n", user.Status)
		fmt.Printf("  Trial:           %v\n", user.IsTrial.Int() != 0)
		fmt.Printf("  Expires:         %s\n", formatUnix(user.ExpDate.Int()))
		fmt.Printf("  Connections:     %d/%d\n", user.ActiveConnections.Int(), user.MaxConnections.Int())
		fmt.Printf("  Output formats:  %s\n", strings.Join(user.AllowedOutputFormats, ", "))
		fmt.Printf("Server\n")
		fmt.Printf("  URL:             %s://%s:%d\n", server.ServerProtocol, server.URL, server.Port.Int())
		fmt.Printf("  Timezone:        %s\n", server.Timezone)
		fmt.Printf("  Server time:     %s\n", server.TimeNow)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
