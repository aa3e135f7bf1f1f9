package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove the value or subtree at a path",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var rmMessage string

func init() {
	rmCmd.Flags().StringVarP(&rmMessage, "message", "m", "", "commit message")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	s, _, err := openShelf(cmd)
	if err != nil {
		return err
	}

	if err := s.Delete(args[0]); err != nil {
		return err
	}

	commit, err := s.Commit(cmd.Context(), rmMessage)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Committed %s\n", commit)
	return nil
}
