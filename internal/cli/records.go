package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/rememberme/internal/config"
	"github.com/lazypower/rememberme/internal/store"
)

// withStore loads config, opens the configured store and hands it to fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st store.Store, out io.Writer) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	st, _, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(ctx, st, cmd.OutOrStdout())
}

// --- family command ---

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "List the family tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store, out io.Writer) error {
			members, err := st.Family().List(ctx)
			if err != nil {
				return fmt.Errorf("list family: %w", err)
			}
			if len(members) == 0 {
				fmt.Fprintln(out, "No family members yet.")
				return nil
			}
			fmt.Fprintln(out, "## Family Tree")
			fmt.Fprintln(out)
			for _, m := range members {
				fmt.Fprintf(out, "  %s (%s)\n", m.PersonName, m.Relationship)
			}
			return nil
		})
	},
}

// --- memories command ---

var memoriesPerson string

var memoriesCmd = &cobra.Command{
	Use:   "memories",
	Short: "List stored memories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store, out io.Writer) error {
			mems, err := st.Memories().List(ctx, store.MemoryFilter{PersonName: memoriesPerson})
			if err != nil {
				return fmt.Errorf("list memories: %w", err)
			}
			if len(mems) == 0 {
				fmt.Fprintln(out, "No memories found.")
				return nil
			}
			for i, m := range mems {
				fmt.Fprintf(out, "%d. %s, %s [%s]\n", i+1, m.PersonName, m.Relationship, m.ID)
				fmt.Fprintf(out, "   %s\n", m.MemoryText)
				if len(m.Tags) > 0 {
					fmt.Fprintf(out, "   tags: %s\n", strings.Join(m.Tags, ", "))
				}
			}
			return nil
		})
	},
}

// --- events command ---

var (
	eventsAll   bool
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List upcoming events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store, out io.Writer) error {
			f := store.EventFilter{From: time.Now().UTC(), Limit: eventsLimit}
			if eventsAll {
				f.From = time.Time{}
			}
			events, err := st.Events().List(ctx, f)
			if err != nil {
				return fmt.Errorf("list events: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No upcoming events.")
				return nil
			}
			for _, e := range events {
				fmt.Fprintf(out, "%s  %s\n", e.Date.Local().Format("Mon Jan 2 2006 15:04"), e.Name)
				if e.Description != "" {
					fmt.Fprintf(out, "    %s\n", e.Description)
				}
			}
			return nil
		})
	},
}

// --- patient command ---

var patientCmd = &cobra.Command{
	Use:   "patient",
	Short: "Show patient details",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store, out io.Writer) error {
			p, err := st.Patient().Get(ctx)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					fmt.Fprintln(out, "No patient details saved yet.")
					return nil
				}
				return fmt.Errorf("get patient: %w", err)
			}

			fmt.Fprintf(out, "## %s\n\n", p.Name)
			if p.Age != nil {
				fmt.Fprintf(out, "Age: %d\n", *p.Age)
			}
			printList(out, "Favorite activities", p.FavoriteActivities)
			printList(out, "Notable life events", p.NotableLifeEvents)
			printList(out, "Hobbies", p.Hobbies)
			if p.MedicalNotes != "" {
				fmt.Fprintf(out, "Medical notes: %s\n", p.MedicalNotes)
			}
			return nil
		})
	},
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "- %s\n", item)
	}
}

func init() {
	memoriesCmd.Flags().StringVarP(&memoriesPerson, "person", "p", "", "Only show memories about this person")

	eventsCmd.Flags().BoolVar(&eventsAll, "all", false, "Include past events")
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 0, "Maximum number of events (0 for no limit)")
}
