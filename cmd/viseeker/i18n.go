// Package main provides localization for the viseeker CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Video toolkit: probe, convert, resize, split, extract keyframes, compress, and describe videos across local, HTTP, and S3 locations.": "動画ツールキット: ローカル・HTTP・S3上の動画の解析、変換、リサイズ、分割、キーフレーム抽出、圧縮、説明生成を行います。",

		// Subcommands
		"Probe a video and print its metadata.":           "動画を解析してメタデータを表示",
		"Convert a video to a faststart MP4.":             "動画をfaststart MP4に変換",
		"Resize a video to a target resolution.":          "動画を指定解像度にリサイズ",
		"Strip all audio streams without re-encoding.":    "再エンコードせずに全音声ストリームを除去",
		"Split a video into segments without re-encoding.": "再エンコードせずに動画をセグメントに分割",
		"Extract representative keyframes as images.":     "代表的なキーフレームを画像として抽出",
		"Compress a video toward a byte-size budget.":     "バイトサイズ予算に向けて動画を圧縮",
		"Caption a video with a vision-language model.":   "視覚言語モデルで動画の説明を生成",
		"Show version information.":                       "バージョン情報を表示",

		// Shared flags
		"Video path/URL (e.g., ./a.mp4, https://..., s3://bucket/key).": "動画のパスまたはURL（例: ./a.mp4, https://..., s3://bucket/key）",
		"Output path or s3:// URL.":                                    "出力パスまたはs3:// URL",
		"Path to a YAML config file.":                                  "YAML設定ファイルのパス",
		"Log level (debug, info, warn, error).":                        "ログレベル（debug, info, warn, error）",
		"Suppress all log output.":                                     "全てのログ出力を抑制",

		// Runtime messages
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"viseeker version %s":           "viseeker バージョン %s",
	})
}
