package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Session level messages (info)
		"Opening %s":                         "%s を開いています",
		"Opened %s (%s backend)":             "%s を開きました (%s バックエンド)",
		"Replacing %s":                       "%s を置き換えます",
		"Extracted frame %d at %.2fs":        "%[2].2f 秒のフレーム %[1]d を取り出しました",
		"Detected %d regions":                "%d 個の領域を検出しました",
		"Extracted audio: %d bytes":          "音声を抽出しました: %d バイト",
		"Video has no audio track":           "この動画には音声トラックがありません",
		"Output saved to %s":                 "出力を %s に保存しました",
		"Failed to open video: %v":           "動画を開けませんでした: %v",
		"Failed to extract frame: %v":        "フレームを取り出せませんでした: %v",
		"Failed to close previous video: %v": "前の動画を閉じられませんでした: %v",
		"Failed to save debug output: %v":    "デバッグ出力を保存できませんでした: %v",

		// Video resource
		"Could not read container metadata of %s: %v": "%s のコンテナメタデータを読めませんでした: %v",

		// Metadata stage
		"Resolved properties: %s":                   "プロパティを解決しました: %s",
		"Audio probe failed, assuming no audio: %v": "音声の検査に失敗したため音声なしとみなします: %v",

		// Seek stage
		"Seek %.3fs resolved to frame %d at %.3fs": "%.3f 秒のシークをフレーム %d (%.3f 秒) に解決しました",

		// Audio stage
		"Skipping audio extraction: no audio track": "音声トラックがないため抽出をスキップします",
		"Extracted %d bytes of %s audio":            "%d バイトの %s 音声を抽出しました",
		"Audio extraction failed: %s":               "音声の抽出に失敗しました: %s",
		"Audio extraction failed: %s %q":            "音声の抽出に失敗しました: %s %q",
		"Transcoder error: %v":                      "トランスコーダのエラー: %v",

		// Container readers
		"Native container parse failed, falling back: %v":           "コンテナの解析に失敗したためフォールバックします: %v",
		"Native container metadata incomplete, consulting fallback": "コンテナのメタデータが不完全なためフォールバックを参照します",
		"Fallback failed: %v": "フォールバックに失敗しました: %v",

		// ffmpeg adapter
		"Using ffmpeg at %s":                        "ffmpeg を使用します: %s",
		"Using ffprobe at %s":                       "ffprobe を使用します: %s",
		"Probed %s: %d streams, format %s":          "%s を検査しました: %d ストリーム, 形式 %s",
		"Transcoded audio of %s to %s (%d bytes)":   "%s の音声を %s に変換しました (%d バイト)",
		"Failed to remove scratch directory %s: %v": "作業ディレクトリ %s を削除できませんでした: %v",
	})
}
