// Package main provides localization for the framecut CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Frame-accurate video trimming and YouTube caption collection.": "フレーム単位の動画切り出しとYouTube字幕の収集。",

		// Progress
		"Interrupted, shutting down...":        "中断されました。シャットダウン中...",
		"Output saved to %s (%d frames)":       "出力を %s に保存しました (%d フレーム)",
		"Could not probe %s: %v":               "%s の情報を取得できませんでした: %v",
		"%s: %dx%d @ %.3f fps, %s frames (%s)": "%s: %dx%d @ %.3f fps, %s フレーム (%s)",
		"Summary saved to %s":                  "サマリーを %s に保存しました",
		"unknown":                              "不明",

		// Errors
		"no jobs: pass --input or list jobs in the configuration file":           "ジョブがありません: --input を指定するか設定ファイルに jobs を記述してください",
		"no URLs: pass them as arguments or list urls in the configuration file": "URLがありません: 引数で指定するか設定ファイルに urls を記述してください",
		"%d of %d clips failed":                                                  "%d/%d 件のクリップが失敗しました",
		"%d URLs could not be resolved":                                          "%d 件のURLを解決できませんでした",
		"%d of %d files could not be probed":                                     "%d/%d 件のファイルの情報を取得できませんでした",
		"region %q must be x,y,width,height":                                     "領域 %q は x,y,width,height の形式で指定してください",
		"%s failed: %s":                                                          "%s に失敗しました: %s",

		// Version command
		"framecut version %s": "framecut バージョン %s",
	})
}
