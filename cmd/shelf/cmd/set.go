package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <path> [value]",
	Short: "Store a value at a path",
	Long:  "Store a value at a path and commit. With no value argument, the value is read from stdin.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSet,
}

var setMessage string

func init() {
	setCmd.Flags().StringVarP(&setMessage, "message", "m", "", "commit message")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) (err error) {
	var data []byte
	if len(args) > 1 {
		data = []byte(args[1])
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	s, _, err := openShelf(cmd)
	if err != nil {
		return err
	}

	if err := s.Set(cmd.Context(), args[0], data); err != nil {
		return err
	}

	commit, err := s.Commit(cmd.Context(), setMessage)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Committed %s\n", commit)
	return nil
}
