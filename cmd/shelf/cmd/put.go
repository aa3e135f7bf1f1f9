package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aweris/shelf"
)

var putCmd = &cobra.Command{
	Use:   "put",
	Short: "Store stdin keyed by its content hash",
	Long:  "Store data from stdin keyed by its own content hash and print the hash. History is not kept in this mode.",
	Args:  cobra.NoArgs,
	RunE:  runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	s, _, err := openShelf(cmd, shelf.WithKeepHistory(false))
	if err != nil {
		return err
	}

	hash, err := s.Put(cmd.Context(), data)
	if err != nil {
		return err
	}
	if err := s.Sync(cmd.Context()); err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}
