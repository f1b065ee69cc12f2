package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dp-coding/zammad-tui/internal/config"
	"github.com/dp-coding/zammad-tui/internal/gitutil"
	"github.com/dp-coding/zammad-tui/internal/zammad"
)

var branchPrefix string

var branchCmd = &cobra.Command{
	Use:   "branch [ticket-id]",
	Short: "Create a git branch named after a ticket",
	Long: `Without arguments, lists your open tickets. With a ticket id, creates and
checks out a branch named after that ticket in the enclosing repository.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.Open()
		if err != nil {
			return err
		}
		setupLogging(store)
		svc := zammad.NewService(store)

		tickets, err := svc.TicketsForCurrentUser()
		if err != nil {
			return fmt.Errorf("%s", zammad.UserMessage(err))
		}

		if len(args) == 0 {
			if len(tickets) == 0 {
				fmt.Println("No open tickets found for the current user.")
				return nil
			}
			for _, t := range tickets {
				fmt.Printf("%6d  %s\n", t.ID, t.Title)
			}
			return nil
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ticket id %q", args[0])
		}
		var ticket *zammad.Ticket
		for i := range tickets {
			if tickets[i].ID == id {
				ticket = &tickets[i]
				break
			}
		}
		if ticket == nil {
			return fmt.Errorf("ticket %d is not among your open tickets", id)
		}

		repo, err := gitutil.Discover()
		if err != nil {
			return err
		}
		if _, err := repo.CurrentBranch(); err != nil {
			return err
		}
		name := gitutil.BranchName(branchPrefix, ticket.ID, ticket.Title)
		if err := repo.CheckoutNewBranch(name); err != nil {
			return err
		}
		fmt.Printf("Created and checked out branch %q for ticket #%d: %s\n", name, ticket.ID, ticket.Title)
		return nil
	},
}

func init() {
	branchCmd.Flags().StringVar(&branchPrefix, "prefix", gitutil.DefaultPrefix, "prefix for the branch name")
	rootCmd.AddCommand(branchCmd)
}
