package handlers

import (
	"github.com/spf13/cobra"

	"newspipe/internal/pipeline"
)

// NewProcessCmd creates the batch processing command.
func NewProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <input.json|.jsonl> <output.json>",
		Short: "Process a batch file and write the classified results",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.New(cfg)
			return p.RunFile(cmd.Context(), args[0], args[1])
		},
	}
}
