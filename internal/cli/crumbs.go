package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/adminstack/pkg/errors"
	nodeio "github.com/matzehuels/adminstack/pkg/io"
	"github.com/matzehuels/adminstack/pkg/render/nodelink"
	"github.com/matzehuels/adminstack/pkg/server"
	"github.com/matzehuels/adminstack/pkg/session"
	"github.com/matzehuels/adminstack/pkg/stack"
	"github.com/matzehuels/adminstack/pkg/ui"
)

const defaultSession = "default"

// withStack loads the stack of sessionID, runs fn and, when save is set,
// writes the result back. A result that cannot be ordered is not written.
// New sessions start with the configured top-level breadcrumb.
func (c *CLI) withStack(ctx context.Context, sessionID string, nav stack.Navigator, save bool, fn func(*stack.Stack) error) error {
	if err := pkgerrors.ValidateSessionID(sessionID); err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	store, err := c.newSessionStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	opts := []stack.Option{stack.WithLogger(loggerFromContext(ctx))}
	if sess == nil {
		sess = session.New(sessionID, cfg.Session.TTL)
		opts = append(opts, stack.WithTopLevel(server.TopLevelID, cfg.UI.TopLevelTitle, cfg.UI.TopLevelURL))
	} else {
		opts = append(opts, stack.WithState(sess.State))
	}

	st := stack.New(nav, opts...)
	if err := fn(st); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := st.Validate(ctx); err != nil {
		return err
	}
	sess.State = st.Snapshot()
	sess.Touch(cfg.Session.TTL)
	return store.Set(ctx, sess)
}

func (c *CLI) crumbsCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "crumbs",
		Short: "Manage the breadcrumb stack of a session",
		Long: `Crumbs keeps a breadcrumb trail per session across invocations. Every
breadcrumb names its parent; the trail is shown parents-first and invisible
breadcrumbs lend their URL to the visible breadcrumb before them.`,
	}
	cmd.PersistentFlags().StringVarP(&sessionID, "session", "s", defaultSession, "session id")

	cmd.AddCommand(c.crumbsAddCommand(&sessionID))
	cmd.AddCommand(c.crumbsUpdateCommand(&sessionID))
	cmd.AddCommand(c.crumbsRemoveCommand(&sessionID))
	cmd.AddCommand(c.crumbsListCommand(&sessionID))
	cmd.AddCommand(c.crumbsBackCommand(&sessionID, false))
	cmd.AddCommand(c.crumbsBackCommand(&sessionID, true))
	cmd.AddCommand(c.crumbsResetCommand(&sessionID))
	return cmd
}

func (c *CLI) crumbsAddCommand(sessionID *string) *cobra.Command {
	var (
		id, parent, title string
		invisible         bool
	)
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Register a breadcrumb",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			w := cmd.OutOrStdout()
			return c.withStack(cmd.Context(), *sessionID, nil, true, func(st *stack.Stack) error {
				if id == "" {
					h, err := stack.Register(st, parent, url, title, invisible)
					if err != nil {
						return err
					}
					id = h.ID()
				} else {
					if err := pkgerrors.ValidateNodeID(id); err != nil {
						return err
					}
					if err := pkgerrors.ValidateURL(url); err != nil {
						return err
					}
					for _, b := range st.Snapshot().Breadcrumbs {
						if b.ID == id {
							return pkgerrors.New(pkgerrors.ErrCodeDuplicateID, "breadcrumb %q already exists", id)
						}
					}
					st.AddBreadcrumb(stack.Breadcrumb{ID: id, ParentID: parent, URL: url, Title: title, Invisible: invisible})
				}
				fmt.Fprintln(w, id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "breadcrumb id (generated when empty)")
	cmd.Flags().StringVarP(&parent, "parent", "p", server.TopLevelID, "parent breadcrumb id")
	cmd.Flags().StringVarP(&title, "title", "t", "", "breadcrumb title")
	cmd.Flags().BoolVar(&invisible, "invisible", false, "hide the breadcrumb and hand its URL to the previous one")
	return cmd
}

func (c *CLI) crumbsUpdateCommand(sessionID *string) *cobra.Command {
	var (
		title     string
		invisible bool
	)
	cmd := &cobra.Command{
		Use:   "update <id> <url>",
		Short: "Change URL, title and visibility of a breadcrumb",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, url := args[0], args[1]
			if err := pkgerrors.ValidateURL(url); err != nil {
				return err
			}
			return c.withStack(cmd.Context(), *sessionID, nil, true, func(st *stack.Stack) error {
				var current *stack.Breadcrumb
				for _, b := range st.Snapshot().Breadcrumbs {
					if b.ID == id {
						current = &b
						break
					}
				}
				if current == nil {
					return pkgerrors.Wrap(pkgerrors.ErrCodeNotFound, stack.ErrNotFound, "breadcrumb %q", id)
				}
				next := *current
				next.URL, next.Invisible = url, invisible
				if cmd.Flags().Changed("title") {
					next.Title = title
				}
				if err := st.UpdateBreadcrumb(next); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Updated %s", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title (unchanged when omitted)")
	cmd.Flags().BoolVar(&invisible, "invisible", false, "hide the breadcrumb")
	return cmd
}

func (c *CLI) crumbsRemoveCommand(sessionID *string) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Unregister breadcrumbs",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStack(cmd.Context(), *sessionID, nil, true, func(st *stack.Stack) error {
				for _, id := range args {
					st.RemoveBreadcrumb(id)
				}
				printSuccess(cmd.OutOrStdout(), "Removed %d breadcrumbs", len(args))
				return nil
			})
		},
	}
}

func (c *CLI) crumbsListCommand(sessionID *string) *cobra.Command {
	var asJSON, all, tree bool
	var renderPath string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the breadcrumb trail",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			return c.withStack(cmd.Context(), *sessionID, nil, false, func(st *stack.Stack) error {
				var (
					crumbs []stack.Breadcrumb
					err    error
				)
				if all || tree || renderPath != "" {
					crumbs, err = stack.OrderBreadcrumbs(cmd.Context(), st.Snapshot().Breadcrumbs)
				} else {
					crumbs, err = st.VisibleBreadcrumbs()
				}
				if err != nil {
					return err
				}
				switch {
				case asJSON:
					return nodeio.WriteJSON(w, crumbs)
				case renderPath != "":
					return c.renderNodes(cmd.Context(), w, nodelink.FromBreadcrumbs(crumbs), renderPath, true, 2)
				case tree:
					fmt.Fprintln(w, ui.Tree(crumbs, crumbLabel, theme))
				case all:
					for _, b := range crumbs {
						printKeyValue(w, b.ID, crumbLabel(b))
					}
				default:
					header, err := ui.Header(st, theme)
					if err != nil {
						return err
					}
					fmt.Fprintln(w, header)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include invisible breadcrumbs")
	cmd.Flags().BoolVar(&tree, "tree", false, "print all breadcrumbs as a tree")
	cmd.Flags().StringVar(&renderPath, "render", "", "render all breadcrumbs to a diagram file")
	return cmd
}

func crumbLabel(b stack.Breadcrumb) string {
	s := b.Title
	if s == "" {
		s = b.ID
	}
	if b.Invisible {
		s += " (invisible)"
	}
	return s + "  " + StyleDim.Render(b.URL)
}

func (c *CLI) crumbsBackCommand(sessionID *string, all bool) *cobra.Command {
	use, short := "back", "Print the URL of the previous page"
	if all {
		use, short = "back-all", "Print the URL of the top-level page"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := stack.NavigatorFunc(func(_ context.Context, url string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), url)
				return err
			})
			return c.withStack(cmd.Context(), *sessionID, nav, false, func(st *stack.Stack) error {
				if all {
					return st.GoAllBack(cmd.Context())
				}
				return st.GoBack(cmd.Context())
			})
		},
	}
}

func (c *CLI) crumbsResetCommand(sessionID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the session and its stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgerrors.ValidateSessionID(*sessionID); err != nil {
				return err
			}
			store, err := c.newSessionStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Delete(cmd.Context(), *sessionID); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Reset session %s", *sessionID)
			printNextStep(cmd.OutOrStdout(), "Start a new trail", appName+" crumbs add <url>")
			return nil
		},
	}
}
