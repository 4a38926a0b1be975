package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <検索語...>",
	Short: "検索語に対する候補語を一行ずつ出力します",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		term := strings.TrimSpace(strings.Join(args, " "))
		if term == "" {
			return errors.New("検索語が空です")
		}

		values, err := app.SuggestTerms(cmd.Context(), term)
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}
