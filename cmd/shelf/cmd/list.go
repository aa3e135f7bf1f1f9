package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List stored paths",
	Long:  "List all stored paths on the branch, optionally filtered by prefix.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	s, _, err := openShelf(cmd)
	if err != nil {
		return err
	}

	count := 0
	for key, rec := range s.Entries() {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		fmt.Printf("%s\t%s\n", key, rec.Hash())
		count++
	}

	if count == 0 {
		fmt.Println("(no entries)")
	}
	return nil
}
