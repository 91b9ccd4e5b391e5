// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/aggregate"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored chat sessions and their analyses",
}

var historySessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	RunE:  runHistorySessions,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session's messages and analyses",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a session and everything stored under it",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.AddCommand(historySessionsCmd, historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	cfg := loadConfig()
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return store, nil
}

func runHistorySessions(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.Sessions(context.Background())
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-10s  %-10s  %s\n", "Session", "Messages", "Analyses", "Created")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, s := range sessions {
		fmt.Fprintf(os.Stdout, "%-24s  %-10d  %-10d  %s\n",
			s.ID, s.Messages, s.Analyses, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	sessionID := args[0]

	msgs, err := store.RecentMessages(ctx, sessionID)
	if err != nil {
		return err
	}
	analyses, err := store.Analyses(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(msgs) == 0 && len(analyses) == 0 {
		fmt.Printf("Session %s is empty or unknown.\n", sessionID)
		return nil
	}

	for _, m := range msgs {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), m.Role, m.Content)
	}
	for i := range analyses {
		fmt.Printf("\n--- analysis %d ---\n", i+1)
		aggregate.FormatTable(&analyses[i], os.Stdout)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteSession(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted session %s.\n", args[0])
	return nil
}
