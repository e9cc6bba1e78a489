package handlers

import (
	"github.com/ideamans/go-l10n"
)

const (
	btnPreview = "🖼 Preview"
	btnSample  = "🧾 Sample"
	btnOrder   = "📮 Order"

	msgWelcome     = "Send a photo to start. The caption becomes the card message."
	msgHelp        = "Commands:\n/template <name>\n/fit contain|cover\n/align top|center|bottom\n/font <name>\n/color #rrggbb\n/frame on|off\n/guides on|off\n/text <message>"
	msgBusy        = "Still working on your last card, please wait."
	msgPhotoSaved  = "Photo saved."
	msgTextSaved   = "Message saved."
	msgTextCleared = "Message cleared, the default message will be used."
	msgSaved       = "Saved."
	msgRendering   = "Rendering..."
	msgOrdering    = "Sending your order..."
	msgNeedPhoto   = "Please send a photo first."
	msgOrderDone   = "Order %s accepted."
	msgBadOption   = "Unknown value %q. Choose one of: %s"
	msgBadColor    = "Colors look like #333 or #1a2b3c."

	msgPhotoFailed  = "Could not read that photo, please try another one."
	msgRenderFailed = "Could not create the card, please try again."
	msgImageFailed  = "An image could not be loaded, please try again."
	msgOrderFailed  = "The order could not be sent, please try again."
)

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		btnPreview: "🖼 プレビュー",
		btnSample:  "🧾 サンプル",
		btnOrder:   "📮 注文",

		msgWelcome:     "写真を送ってください。キャプションがメッセージになります。",
		msgHelp:        "コマンド:\n/template <名前>\n/fit contain|cover\n/align top|center|bottom\n/font <名前>\n/color #rrggbb\n/frame on|off\n/guides on|off\n/text <メッセージ>",
		msgBusy:        "前のカードを作成中です。少々お待ちください。",
		msgPhotoSaved:  "写真を保存しました。",
		msgTextSaved:   "メッセージを保存しました。",
		msgTextCleared: "メッセージを消去しました。デフォルトのメッセージを使います。",
		msgSaved:       "保存しました。",
		msgRendering:   "作成中...",
		msgOrdering:    "注文を送信中...",
		msgNeedPhoto:   "先に写真を送ってください。",
		msgOrderDone:   "注文 %s を受け付けました。",
		msgBadOption:   "%q は使えません。次から選んでください: %s",
		msgBadColor:    "色は #333 や #1a2b3c の形式で指定してください。",

		msgPhotoFailed:  "写真を読み込めませんでした。別の写真でお試しください。",
		msgRenderFailed: "カードを作成できませんでした。もう一度お試しください。",
		msgImageFailed:  "画像を読み込めませんでした。もう一度お試しください。",
		msgOrderFailed:  "注文を送信できませんでした。もう一度お試しください。",
	})
}

func menuButtons() []string {
	return []string{l10n.T(btnPreview), l10n.T(btnSample), l10n.T(btnOrder)}
}
