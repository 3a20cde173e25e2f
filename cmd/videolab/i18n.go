// Package main provides localization for the videolab CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration":  "設定",
		"External tools": "外部ツール",
		"Logging":        "ログ",
		"Debug":          "デバッグ",

		// Root command
		"Inspect videos, extract frames and audio": "動画の検査とフレーム・音声の抽出",
		"videolab reads video properties, extracts a still frame at any time offset, applies image transforms to it and extracts the audio track.": "videolabは動画のプロパティを読み取り、任意の時刻の静止フレームを取り出して画像変換を適用し、音声トラックを抽出します。",

		// Global flags
		"Path to a YAML configuration file":    "YAML設定ファイルのパス",
		"Path to the ffmpeg executable":        "ffmpeg実行ファイルのパス",
		"Path to the ffprobe executable":       "ffprobe実行ファイルのパス",
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",
		"Enable debug output":                  "デバッグ出力を有効化",
		"Directory for debug output":           "デバッグ出力のディレクトリ",

		// Probe command
		"Print the properties of a video":             "動画のプロパティを表示",
		"Print one property per line instead of YAML": "YAMLの代わりに1行に1プロパティを表示",
		"unknown":      "不明",
		"Width":        "幅",
		"Height":       "高さ",
		"Duration (s)": "長さ（秒）",
		"FPS":          "FPS",
		"Frames":       "フレーム数",
		"Has audio":    "音声あり",
		"Backend":      "バックエンド",

		// Frame command
		"Extract a still frame and apply transforms":    "静止フレームを取り出して変換を適用",
		"Time offset in seconds (clamped to the video)": "時刻（秒、動画の範囲に収められます）",
		"Transform to apply, repeatable (gray, rotate90, rotate180, rotate270, mirror, grid, grid=RxC, detect, detect=AREA)": "適用する変換、複数指定可（gray, rotate90, rotate180, rotate270, mirror, grid, grid=RxC, detect, detect=AREA）",
		"Crop applied after the transforms (left, right, top, bottom, major, minor)":                                         "変換の後に適用する切り抜き（left, right, top, bottom, major, minor）",
		"Output image path (.png, .jpg, .bmp, .tiff)":                                                                        "出力画像のパス（.png, .jpg, .bmp, .tiff）",
		"JPEG quality (1-100)":                                                    "JPEG品質（1-100）",
		"Apply transforms to a still image":                                       "静止画像に変換を適用",
		"An image file argument is required":                                      "画像ファイルの引数が必要です",
		"Scale the output to this width, keeping the aspect ratio (0 = original)": "出力をこの幅に縮尺（縦横比を維持、0 = 元のまま）",
		"The resulting frame is empty":                                            "変換結果のフレームが空です",

		// Audio command
		"Extract the audio track":                                           "音声トラックを抽出",
		"Audio format (mp3, wav, ogg, flac, m4a)":                           "音声形式（mp3, wav, ogg, flac, m4a）",
		"Output audio path (default: video name with the format extension)": "出力音声のパス（デフォルト: 動画名に形式の拡張子）",
		"This video has no audio track.":                                    "この動画には音声トラックがありません。",
		"Audio extraction failed":                                           "音声の抽出に失敗しました",

		// Audio failure reasons
		"unsupported audio format":                 "対応していない音声形式です",
		"ffmpeg is not available":                  "ffmpegが見つかりません",
		"audio transcoder exited with an error":    "音声変換がエラーで終了しました",
		"audio transcoder produced no output file": "音声変換の出力ファイルがありません",
		"audio transcoder produced an empty file":  "音声変換の出力ファイルが空です",
		"audio extraction was canceled":            "音声の抽出が中断されました",
		"audio extraction failed":                  "音声の抽出に失敗しました",

		// Runtime messages
		"A video file argument is required": "動画ファイルの引数が必要です",
		"Interrupted, shutting down...":     "中断されました。シャットダウン中...",
		"Error: %s":                         "エラー: %s",
	})
}
