package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskledger/internal/dispatch"
)

// AddDocumentCommand adds the document command group to the root command.
func AddDocumentCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Attach and inspect document versions on a task",
	}

	cmd.AddCommand(newDocumentAddVersionCmd(flags))
	cmd.AddCommand(newDocumentVersionsCmd(flags))

	root.AddCommand(cmd)
}

func newDocumentAddVersionCmd(flags *GlobalFlags) *cobra.Command {
	var metadata string

	cmd := &cobra.Command{
		Use:   "add-version <task-id> <document-id> <version> <content-hash> <uploaded-by>",
		Short: "Attach a document version to a task",
		Long: `Attach a document version to a task, creating the document on first use.

Versions are an append-only trail: nothing is replaced, repeated version
labels are kept as separate entries, and the engine never inspects the
content hash.

Optional annotations travel as a JSON object via --metadata. Malformed
metadata is downgraded to an empty object with a warning; the attachment
itself is never lost over annotations.

Examples:
  taskledger document add-version T-100 contract v2 9f86d08...b842 alice --role jurist
  taskledger document add-version T-100 contract v2 9f86d08...b842 alice \
    --metadata '{"pages": 12}' --role jurist`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("metadata") {
				args = append(args, metadata)
			}
			return runInvocation(cmd, flags, dispatch.FuncAddDocumentVersion, args)
		},
	}

	cmd.Flags().StringVarP(&metadata, "metadata", "m", "", "version metadata as a JSON object")

	return cmd
}

func newDocumentVersionsCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "versions <task-id> <document-id>",
		Short: "Show the full version trail of a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvocation(cmd, flags, dispatch.FuncGetDocumentVersions, args)
		},
	}
}
