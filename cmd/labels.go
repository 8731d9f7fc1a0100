package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"openkeep/client"
	"openkeep/logger"

	"github.com/spf13/cobra"
)

func labelStore(cmd *cobra.Command) (*client.LabelStore, error) {
	s := client.LabelStoreFrom(cmd.Context())
	if s == nil {
		return nil, errors.New("label store not initialized")
	}
	return s, nil
}

var labelsCmd = &cobra.Command{
	Use:     "labels",
	Short:   "Manage labels on a running server",
	Aliases: []string{"l", "label"},
}

var labelsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all labels",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Executing 'labels list' command")
		store, err := labelStore(cmd)
		if err != nil {
			return err
		}
		if err := store.FetchLabels(cmd.Context()); err != nil {
			return err
		}
		labels := store.State().Labels
		out := cmd.OutOrStdout()
		if len(labels) == 0 {
			fmt.Fprintln(out, "No labels found.")
			return nil
		}
		writer := new(tabwriter.Writer)
		writer.Init(out, 0, 8, 1, '\t', 0)
		fmt.Fprintln(writer, "ID\tNAME")
		fmt.Fprintln(writer, "--\t----")
		for _, l := range labels {
			fmt.Fprintf(writer, "%s\t%s\n", l.ID, l.Name)
		}
		writer.Flush()
		return nil
	},
}

var labelsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := labelStore(cmd)
		if err != nil {
			return err
		}
		label, err := store.CreateLabel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created label %s (%s)\n", label.Name, label.ID)
		return nil
	},
}

var labelsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a label",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := labelStore(cmd)
		if err != nil {
			return err
		}
		if err := store.RenameLabel(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Label %s renamed to %s\n", args[0], args[1])
		return nil
	},
}

var labelsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a label; notes carrying it are kept",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := labelStore(cmd)
		if err != nil {
			return err
		}
		if err := store.DeleteLabel(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Label %s deleted\n", args[0])
		return nil
	},
}

func init() {
	labelsCmd.AddCommand(labelsListCmd, labelsAddCmd, labelsRenameCmd, labelsDeleteCmd)
	rootCmd.AddCommand(labelsCmd)
}
