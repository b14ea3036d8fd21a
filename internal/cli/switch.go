package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/adminstack/pkg/errors"
	nodeio "github.com/matzehuels/adminstack/pkg/io"
	"github.com/matzehuels/adminstack/pkg/stack"
	"github.com/matzehuels/adminstack/pkg/ui"
)

func (c *CLI) switchCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Manage the tab and page switch registrations of a session",
	}
	cmd.PersistentFlags().StringVarP(&sessionID, "session", "s", defaultSession, "session id")

	cmd.AddCommand(c.switchSetCommand(&sessionID))
	cmd.AddCommand(c.switchRemoveCommand(&sessionID))
	cmd.AddCommand(c.switchListCommand(&sessionID))
	return cmd
}

func (c *CLI) switchSetCommand(sessionID *string) *cobra.Command {
	var opts stack.SwitchOptions
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Register a switch or replace its registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := pkgerrors.ValidateNodeID(id); err != nil {
				return err
			}
			return c.withStack(cmd.Context(), *sessionID, nil, true, func(st *stack.Stack) error {
				st.AddSwitchMeta(id, opts)
				printSuccess(cmd.OutOrStdout(), "Registered switch %s", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&opts.ParentID, "parent", "p", "", "parent switch id")
	cmd.Flags().StringVar(&opts.ActivePage, "active", "", "active page of the switch")
	cmd.Flags().BoolVar(&opts.IsInitialPageActive, "initial", false, "the initial page is active")
	return cmd
}

func (c *CLI) switchRemoveCommand(sessionID *string) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Unregister switches",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStack(cmd.Context(), *sessionID, nil, true, func(st *stack.Stack) error {
				for _, id := range args {
					st.RemoveSwitchMeta(id)
				}
				printSuccess(cmd.OutOrStdout(), "Removed %d switches", len(args))
				return nil
			})
		},
	}
}

func (c *CLI) switchListCommand(sessionID *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show registered switches, outermost first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			return c.withStack(cmd.Context(), *sessionID, nil, false, func(st *stack.Stack) error {
				switches, err := st.Switches()
				if err != nil {
					return err
				}
				if asJSON {
					return nodeio.WriteJSON(w, switches)
				}
				if len(switches) == 0 {
					printInfo(w, "No switches registered")
					return nil
				}
				fmt.Fprintln(w, ui.Tree(switches, switchLabel, theme))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func switchLabel(s stack.Switch) string {
	switch {
	case s.ActivePage != "":
		return s.ID + "  " + StyleDim.Render(s.ActivePage)
	case s.IsInitialPageActive:
		return s.ID + "  " + StyleDim.Render("initial")
	default:
		return s.ID
	}
}
