package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	"github.com/jdziat/simple-serial-queue/pkg/security"
)

const previewWidth = 60

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the number of stored items and the earliest one",
		RunE: func(cmd *cobra.Command, args []string) error {
			held, err := ctx.lockHeld()
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), func(store core.Store) error {
				count, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				earliest, err := store.PeekEarliest(cmd.Context())
				if err != nil {
					return err
				}

				cfg, _ := ctx.ensureConfig()
				rows := [][]string{
					{"Store", store.Name()},
					{"Driver", cfg.Store.Driver},
					{"Items", strconv.FormatInt(count, 10)},
					{"In use", yesNo(held)},
					// a host opening this store starts paused when it holds items
					{"Starts paused", yesNo(count > 0)},
				}
				if earliest != nil {
					rows = append(rows,
						[]string{"Earliest ID", strconv.FormatInt(earliest.ID, 10)},
						[]string{"Earliest enqueued", earliest.Time().Format(time.RFC3339)},
					)
				}
				out := cmd.OutOrStdout()
				fmt.Fprint(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}, isTerminal(out)))
				return nil
			})
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored items, earliest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(store core.Store) error {
				lister, ok := store.(core.Lister)
				if !ok {
					return core.ErrListUnsupported
				}
				items, err := lister.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.Time().Format(time.RFC3339),
						security.SanitizePreview(item.Payload, previewWidth),
					})
				}
				fmt.Fprint(out, renderTable(
					[]string{"ID", "Enqueued", "Payload"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
					isTerminal(out),
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum items to show (0 for all)")
	return cmd
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit PAYLOAD...",
		Short: "Append serialized payloads to the store",
		Long: "Append each argument as one stored item, verbatim. Arguments must already be in the\n" +
			"form the host's Deserialize expects. The host picks them up paused on its next start.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, payload := range args {
				if err := security.ValidatePayload(payload); err != nil {
					return err
				}
			}
			return ctx.withLockedStore(cmd.Context(), func(store core.Store) error {
				for _, payload := range args {
					id, err := store.Append(cmd.Context(), payload)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Appended item %d\n", id)
				}
				return nil
			})
		},
	}
}

func newSkipFirstCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "skip-first",
		Short: "Remove the earliest stored item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(cmd.Context(), func(store core.Store) error {
				earliest, err := store.PeekEarliest(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if earliest == nil {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				if err := store.RemoveEarliest(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed item %d (%s)\n", earliest.ID, security.SanitizePreview(earliest.Payload, previewWidth))
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			return ctx.withLockedStore(cmd.Context(), func(store core.Store) error {
				count, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s\n", count, plural(count, "item"))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm removal of all items")
	return cmd
}

func plural(n int64, word string) string {
	if n == 1 {
		return word
	}
	return strings.TrimSuffix(word, "s") + "s"
}
