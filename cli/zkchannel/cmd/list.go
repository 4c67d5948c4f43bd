package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(config *baseConfiguration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list stored submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execListCmd(cmd, config)
		},
	}
	addStoreFlag(cmd)
	return cmd
}

func execListCmd(cmd *cobra.Command, config *baseConfiguration) error {
	store, err := openStore(cmd, config)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	subs, err := store.List()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		consoleWriter.Println("no stored submissions")
		return nil
	}
	for _, sub := range subs {
		consoleWriter.Println(fmt.Sprintf("%s %s %s", sub.ExecutionID, sub.Requester, sub.Status))
	}
	return nil
}
