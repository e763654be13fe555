package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/humboldt-labs/depdoctor/internal/registry"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Show npm's native outdated listing",
	Long: `Run 'npm outdated' in the project directory and print its output verbatim.

Unlike 'depdoctor summary', this does not exclude depdoctor's own pinned
rendering dependency or classify version gaps; it is a plain passthrough for
users who want npm's familiar table.`,
	RunE: runOutdatedCmd,
}

func init() {
	RootCmd.AddCommand(outdatedCmd)
}

func runOutdatedCmd(cmd *cobra.Command, args []string) error {
	client := &registry.Client{Runner: newRunner(), Logger: newLogger()}

	out, err := client.OutdatedPassthrough(cmd.Context())
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Println("✓ All packages up to date.")
		return nil
	}
	fmt.Print(out)
	return nil
}
