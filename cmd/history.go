package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/labprep/internal/session"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past sessions and their topic ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.EventRepo().RecentSessions(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}

		for _, rec := range sessions {
			status := fmt.Sprintf("%d/%d topics", len(rec.Assessments), rec.TopicCount)
			if rec.Finished {
				status += ", finished"
			}
			fmt.Fprintf(out, "%s  %-16s  %s\n",
				rec.StartedAt.Local().Format("2006-01-02 15:04"), rec.StudentName, status)
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, a := range rec.Assessments {
				rating, _ := session.ParseRating(a.Rating)
				fmt.Fprintf(out, "  %d. %-44s %s\n", a.TopicIndex+1, truncate(a.Topic, 44), rating.Label())
				if a.Explanation != "" {
					fmt.Fprintf(out, "     %s\n", a.Explanation)
				}
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Number of sessions to show")
}
