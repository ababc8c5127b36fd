package cli

import "github.com/spf13/cobra"

// BoolFlag defines a boolean flag for a command.
type BoolFlag struct {
	Name    string
	Usage   string
	Default bool
}

// StringFlag defines a string flag for a command.
type StringFlag struct {
	Name    string
	Usage   string
	Default string
}

// LeafCommand is a command that runs logic. Each command file declares one
// and calls Build.
type LeafCommand struct {
	Use       string
	Short     string
	Args      cobra.PositionalArgs
	ValidArgs []string
	BoolFlags []BoolFlag
	StrFlags  []StringFlag
	RunE      func(cmd *cobra.Command, args []string) error
}

func (lc LeafCommand) Build() *cobra.Command {
	cmd := &cobra.Command{
		Use:          lc.Use,
		Short:        lc.Short,
		Args:         lc.Args,
		ValidArgs:    lc.ValidArgs,
		RunE:         lc.RunE,
		SilenceUsage: true,
	}
	for _, f := range lc.BoolFlags {
		cmd.Flags().Bool(f.Name, f.Default, f.Usage)
	}
	for _, f := range lc.StrFlags {
		cmd.Flags().String(f.Name, f.Default, f.Usage)
	}
	return cmd
}
