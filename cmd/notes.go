package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"openkeep/client"
	"openkeep/logger"
	"openkeep/models"

	"github.com/spf13/cobra"
)

var (
	notesArchived bool
	notesTrashed  bool
	notesLabelID  string
	notesQuery    string

	noteTitle    string
	noteContent  string
	noteColor    string
	notePin      bool
	noteItems    []string
	noteLabelIDs []string
)

func noteStore(cmd *cobra.Command) (*client.NoteStore, error) {
	s := client.NoteStoreFrom(cmd.Context())
	if s == nil {
		return nil, errors.New("note store not initialized")
	}
	return s, nil
}

// notesCmd represents the base command for note operations
var notesCmd = &cobra.Command{
	Use:     "notes",
	Short:   "Manage notes on a running server",
	Aliases: []string{"n", "note"},
}

var notesListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the notes of one view",
	Long:    `Lists active notes by default. --archived and --trashed select those views instead.`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Executing 'notes list' command")
		store, err := noteStore(cmd)
		if err != nil {
			return err
		}
		store.SetSearchQuery(notesQuery)
		if err := store.FetchNotes(cmd.Context(), client.ListParams{
			Archived: notesArchived,
			Trashed:  notesTrashed,
			LabelID:  notesLabelID,
		}); err != nil {
			return err
		}
		printNotes(cmd.OutOrStdout(), store.State().Notes)
		return nil
	},
}

func labelNames(n models.Note) string {
	names := make([]string, 0, len(n.Labels))
	for _, l := range n.Labels {
		names = append(names, l.Label.Name)
	}
	return strings.Join(names, ",")
}

func printNotes(out io.Writer, notes []models.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes found.")
		return
	}
	writer := new(tabwriter.Writer)
	writer.Init(out, 0, 8, 1, '\t', 0)
	fmt.Fprintln(writer, "ID\tPIN\tPOS\tCOLOR\tTYPE\tLABELS\tTITLE")
	fmt.Fprintln(writer, "--\t---\t---\t-----\t----\t------\t-----")
	for _, n := range notes {
		pin := ""
		if n.IsPinned {
			pin = "*"
		}
		title := n.Title
		if title == "" {
			title = firstLine(n.Content)
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n", n.ID, pin, n.Position, n.Color+" "+models.ColorHex(n.Color, false), n.Type, labelNames(n), title)
	}
	writer.Flush()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

var notesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Long:  `Creates a note. Passing --item makes it a checklist with one entry per flag.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := noteStore(cmd)
		if err != nil {
			return err
		}
		in := models.CreateNoteInput{
			Title:    models.Ptr(noteTitle),
			Content:  models.Ptr(noteContent),
			IsPinned: models.Ptr(notePin),
			LabelIDs: noteLabelIDs,
		}
		if noteColor != "" {
			in.Color = models.Ptr(noteColor)
		}
		if len(noteItems) > 0 {
			in.Type = models.Ptr(models.NoteTypeChecklist)
			for _, text := range noteItems {
				in.ChecklistItems = append(in.ChecklistItems, models.NewChecklistItem{Text: text})
			}
		}
		note, err := store.CreateNote(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created note %s at position %d\n", note.ID, note.Position)
		return nil
	},
}

// noteActionCmd builds a single-id subcommand around a store call.
func noteActionCmd(use, short, done string, action func(cmd *cobra.Command, store *client.NoteStore, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := noteStore(cmd)
			if err != nil {
				return err
			}
			if err := action(cmd, store, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note %s %s\n", args[0], done)
			return nil
		},
	}
}

var notesReorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Give the listed notes positions 0..n-1 in the given order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := noteStore(cmd)
		if err != nil {
			return err
		}
		if err := store.ReorderNotes(cmd.Context(), args); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d notes\n", len(args))
		return nil
	},
}

var notesEmptyTrashCmd = &cobra.Command{
	Use:   "empty-trash",
	Short: "Permanently delete every trashed note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := noteStore(cmd)
		if err != nil {
			return err
		}
		n, err := store.EmptyTrash(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d trashed notes\n", n)
		return nil
	},
}

func init() {
	notesListCmd.Flags().BoolVar(&notesArchived, "archived", false, "show archived notes")
	notesListCmd.Flags().BoolVar(&notesTrashed, "trashed", false, "show trashed notes")
	notesListCmd.Flags().StringVar(&notesLabelID, "label", "", "only notes carrying this label id")
	notesListCmd.Flags().StringVarP(&notesQuery, "query", "q", "", "substring to match in title or content")

	notesAddCmd.Flags().StringVar(&noteTitle, "title", "", "note title")
	notesAddCmd.Flags().StringVar(&noteContent, "content", "", "note body")
	notesAddCmd.Flags().StringVar(&noteColor, "color", "", "palette color id (default \"default\")")
	notesAddCmd.Flags().BoolVar(&notePin, "pin", false, "pin the note")
	notesAddCmd.Flags().StringArrayVar(&noteItems, "item", nil, "checklist item (repeatable)")
	notesAddCmd.Flags().StringArrayVar(&noteLabelIDs, "label", nil, "label id (repeatable)")

	setPinned := func(pinned bool) func(*cobra.Command, *client.NoteStore, string) error {
		return func(cmd *cobra.Command, s *client.NoteStore, id string) error {
			return s.UpdateNote(cmd.Context(), id, models.UpdateNoteInput{IsPinned: models.Ptr(pinned)})
		}
	}

	notesCmd.AddCommand(
		notesListCmd,
		notesAddCmd,
		noteActionCmd("pin", "Pin a note", "pinned", setPinned(true)),
		noteActionCmd("unpin", "Unpin a note", "unpinned", setPinned(false)),
		noteActionCmd("archive", "Archive a note", "archived", func(cmd *cobra.Command, s *client.NoteStore, id string) error {
			return s.ArchiveNote(cmd.Context(), id)
		}),
		noteActionCmd("unarchive", "Move a note out of the archive", "unarchived", func(cmd *cobra.Command, s *client.NoteStore, id string) error {
			return s.UnarchiveNote(cmd.Context(), id)
		}),
		noteActionCmd("trash", "Move a note to the trash", "trashed", func(cmd *cobra.Command, s *client.NoteStore, id string) error {
			return s.TrashNote(cmd.Context(), id)
		}),
		noteActionCmd("restore", "Restore a note from the trash", "restored", func(cmd *cobra.Command, s *client.NoteStore, id string) error {
			return s.RestoreNote(cmd.Context(), id)
		}),
		noteActionCmd("delete", "Permanently delete a note", "deleted", func(cmd *cobra.Command, s *client.NoteStore, id string) error {
			return s.DeleteNote(cmd.Context(), id)
		}),
		notesReorderCmd,
		notesEmptyTrashCmd,
	)
	rootCmd.AddCommand(notesCmd)
}
