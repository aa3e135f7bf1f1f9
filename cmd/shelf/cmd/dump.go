package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the tree structure of the branch",
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	s, _, err := openShelf(cmd)
	if err != nil {
		return err
	}

	s.Dump(os.Stdout)
	return nil
}
