package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Trim stage
		"Source %s: %dx%d @ %.3f fps, %d frames":                                    "入力 %s: %dx%d @ %.3f fps, %d フレーム",
		"Source %s: %dx%d @ %.3f fps, frame count unknown":                          "入力 %s: %dx%d @ %.3f fps, フレーム数不明",
		"Trimming frames %d to %d (%.3fs + %.3fs)":                                  "フレーム %d から %d を切り出し中 (%.3f秒 + %.3f秒)",
		"End frame %d (%.3fs) is beyond the video (%d frames), clamping to the end": "終了フレーム %d (%.3f秒) が動画 (%d フレーム) を超えています。末尾までに切り詰めます",
		"End of stream reached before frame %d":                                     "フレーム %d に達する前にストリームが終了しました",
		"Trim completed: %d frames written to %s in %s":                             "切り出し完了: %d フレームを %s に %s で書き込みました",
		"Trim failed for %s [%.3fs + %.3fs]: %v":                                    "切り出しに失敗しました %s [%.3f秒 + %.3f秒]: %v",

		// Crop stage
		"Cropping region %s from %dx%d, output %dx%d":   "%[2]dx%[3]d から領域 %[1]s を切り抜き中, 出力 %[4]dx%[5]d",
		"Crop completed: %d frames written to %s in %s": "切り抜き完了: %d フレームを %s に %s で書き込みました",
		"Crop failed for %s region %s: %v":              "切り抜きに失敗しました %s 領域 %s: %v",

		// Batch runner
		"Job %d/%d: %s [%.3fs + %.3fs]":                      "ジョブ %d/%d: %s [%.3f秒 + %.3f秒]",
		"Trim took %s":                                       "切り出し所要時間 %s",
		"Crop took %s":                                       "切り抜き所要時間 %s",
		"Batch finished: %d/%d trimmed, %d/%d cropped in %s": "バッチ完了: 切り出し %d/%d, 切り抜き %d/%d, 所要時間 %s",
		"Batch interrupted after %d jobs":                    "%d ジョブ後にバッチが中断されました",
		"Could not remove %s: %v":                            "%s を削除できませんでした: %v",

		// Probing
		"Container probe failed for %s: %v": "コンテナからの情報取得に失敗しました %s: %v",

		// Caption collection
		"Found %d videos in playlist %s":                 "プレイリスト %[2]s に %[1]d 件の動画が見つかりました",
		"Could not list playlist %s: %v":                 "プレイリスト %s を取得できませんでした: %v",
		"Could not parse a video or playlist ID from %s": "%s から動画またはプレイリストIDを取得できませんでした",
		"No captions for %s: %v":                         "%s の字幕がありません: %v",
		"Captions for %s (%s): %d characters":            "%s の字幕 (%s): %d 文字",
		"Could not read the title of %s: %v":             "%s のタイトルを取得できませんでした: %v",
		"Saved %d caption records to %s":                 "%d 件の字幕レコードを %s に保存しました",
		"Nothing to save":                                "保存する内容がありません",
		"Fetching playlist page %d of %s":                "%[2]s のプレイリストページ %[1]d を取得中",
	})
}
