package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topics in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, t := range cat.Topics() {
			fmt.Fprintf(out, "%d. %s\n", i+1, t.Topic)
			fmt.Fprintf(out, "   Key concepts: %s\n", strings.Join(t.KeyConcepts, ", "))
			if !verbose {
				continue
			}
			fmt.Fprintf(out, "   Question: %s\n", t.InitialQuestion)
			for _, f := range t.FollowUps {
				fmt.Fprintf(out, "   - %s\n", f)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().BoolP("verbose", "v", false, "Show initial questions and follow-up prompts")
}
