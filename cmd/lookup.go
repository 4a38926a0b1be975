package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	lookupTerm string
	prettyJSON bool
)

// formatJSON は pretty が指定された場合にキーの順序を保ったまま字下げします。
func formatJSON(text string, pretty bool) (string, error) {
	if !pretty {
		return text, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", "  "); err != nil {
		return "", fmt.Errorf("JSONの整形エラー: %w", err)
	}
	return buf.String(), nil
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [検索語...]",
	Short: "検索語をコンペンディウムで検索し、属性をJSONで出力します",
	Long:  `検索語をコンペンディウムで検索します。一意の結果は属性のJSONオブジェクト、複数の候補は {表示テキスト: 属性} の配列として出力します。検索語は引数、--term フラグ、標準入力の順に決定します。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		// 1. 検索語の決定 (引数 > フラグ > 標準入力)
		term := strings.Join(args, " ")
		if term == "" {
			term = lookupTerm
		}
		if term == "" {
			globalLogger.Info("検索語が指定されていないため、標準入力から読み込みます...")
			fmt.Fprint(cmd.ErrOrStderr(), "検索語を入力してください: ")
			if term, err = readLine(cmd.InOrStdin()); err != nil {
				return err
			}
		}

		globalLogger.Debug("検索を開始します", zap.String("term", term))

		// 2. メインロジックの実行
		text, err := app.LookupTerm(cmd.Context(), term)
		if err != nil {
			return err
		}

		// 3. 結果の出力
		out, err := formatJSON(text, prettyJSON)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVarP(&lookupTerm, "term", "t", "", "検索語")
	lookupCmd.Flags().BoolVarP(&prettyJSON, "pretty", "p", false, "JSONを字下げして出力する")
}
