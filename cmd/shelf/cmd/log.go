package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the branch's snapshot history",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	s, store, err := openShelf(cmd)
	if err != nil {
		return err
	}

	head := s.Head()
	if head == "" {
		fmt.Println("(no history)")
		return nil
	}

	for head != "" {
		commit, err := store.ReadCommit(cmd.Context(), head)
		if err != nil {
			return err
		}

		fmt.Printf("commit %s\n", head)
		if commit.Message != "" {
			fmt.Printf("\n    %s\n\n", commit.Message)
		}

		if len(commit.Parents) == 0 {
			break
		}
		head = commit.Parents[0]
	}
	return nil
}
