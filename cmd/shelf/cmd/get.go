package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print the value stored at a path",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	s, _, err := openShelf(cmd)
	if err != nil {
		return err
	}

	data, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)
	return err
}
