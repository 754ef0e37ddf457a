package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Tool level messages (info)
		"Probing %s":                          "%s を解析中",
		"Converting %s to %s":                 "%s を %s へ変換中",
		"Resizing %s to %s":                   "%s を %s へリサイズ中",
		"Removing audio from %s":              "%s から音声を除去中",
		"Splitting %s into segments":          "%s をセグメントに分割中",
		"Extracting keyframes from %s":        "%s からキーフレームを抽出中",
		"Compressing %s toward %d bytes":      "%s を %d バイト目標で圧縮中",
		"Describing %s":                       "%s を説明中",
		"Interrupted, shutting down...":       "中断されました。シャットダウン中...",

		// Compression search
		"Trying fps=%s crf=%d":                "fps=%s crf=%d を試行中",
		"Trying fps=%s height=%d crf=%d":      "fps=%s height=%d crf=%d を試行中",
		"Trying fps=%s bitrate=%s":            "fps=%s bitrate=%s を試行中",
		"Budget not met: %d bytes over a %d byte target": "目標未達: %d バイト (目標 %d バイト)",

		// Segmentation
		"Wrote %d segments":                   "%d 個のセグメントを書き出しました",
		"No keyframes found, splitting at fixed intervals": "キーフレームが見つからないため固定間隔で分割します",

		// Keyframe extraction
		"Selected %d of %d candidate frames":  "候補 %d フレーム中 %d フレームを選択しました",
		"Sampling frames at %.2f fps":         "%.2f fps でフレームをサンプリング中",

		// Description
		"Sending %d frames to %s":             "%d フレームを %s へ送信中",

		// Warnings
		"Encoder %s unavailable, retrying with %s": "エンコーダ %s が利用できないため %s で再試行します",
		"Input longer than %.0f s, describing the first %.0f s": "入力が %.0f 秒を超えるため先頭 %.0f 秒のみを説明します",
		"Output is not faststart optimized":   "出力が faststart 最適化されていません",
	})
}
