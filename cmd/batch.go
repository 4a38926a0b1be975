package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-dungeon-buddy/pkg/types"
)

const previewLength = 100

var inputTerms string // --terms フラグで受け取るカンマ区切りの検索語リスト

// printBatchResults は一件ごとの結果と成功・失敗の件数を出力します。
func printBatchResults(w io.Writer, results []types.TermResult) (successCount, errorCount int) {
	fmt.Fprintln(w, "--- 一括検索結果 ---")

	for i, res := range results {
		if res.Err != nil {
			errorCount++
			fmt.Fprintf(w, "❌ [%d] %s\n", i+1, res.Term)
			fmt.Fprintf(w, "     エラー: %v\n", res.Err)
			continue
		}
		successCount++
		fmt.Fprintf(w, "✅ [%d] %s\n", i+1, res.Term)
		fmt.Fprintf(w, "     JSON: %s\n", preview(res.JSON, previewLength))
	}

	fmt.Fprintln(w, "-------------------------------")
	fmt.Fprintf(w, "完了: 成功 %d 件, 失敗 %d 件\n", successCount, errorCount)
	return successCount, errorCount
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "複数の検索語を順に検索します",
	Long:  `--terms フラグでカンマ区切りの検索語リストを受け取るか、標準入力から検索語を一行ずつ読み込み、一件ずつ順に検索します。`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		// 1. 処理対象の検索語リストを決定
		var terms []string
		if inputTerms != "" {
			terms = splitTerms(inputTerms)
		} else {
			globalLogger.Info("検索語が指定されていないため、標準入力から一行ずつ読み込みます (Ctrl+DまたはEOFで終了)...")
			if terms, err = readLines(cmd.InOrStdin()); err != nil {
				return err
			}
		}
		if len(terms) == 0 {
			return errors.New("処理対象の検索語が一つも指定されていません")
		}

		globalLogger.Info("一括検索を開始します", zap.Int("terms", len(terms)))

		// 2. メインロジックの実行
		results := app.LookupAll(cmd.Context(), terms)

		// 3. 結果の出力
		printBatchResults(cmd.OutOrStdout(), results)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&inputTerms, "terms", "t", "",
		"検索語のカンマ区切りリスト (例: paladin,eldritch blast)")
}
