package messenger

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram 单条消息的长度上限
const maxMessageLength = 4096

// Messenger 向聊天发送文本与图片
type Messenger interface {
	SendText(chatID int64, text string, markup any) error
	SendPhoto(chatID int64, name string, data []byte) error
	AnswerCallback(callbackID string) error
}

type Telegram struct {
	bot *tgbotapi.BotAPI
}

func NewTelegram(bot *tgbotapi.BotAPI) *Telegram {
	return &Telegram{bot: bot}
}

// SendText 超长文本按行拆分发送，键盘只附在最后一条上
func (t *Telegram) SendText(chatID int64, text string, markup any) error {
	parts := Split(text, maxMessageLength)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		if markup != nil && i == len(parts)-1 {
			msg.ReplyMarkup = markup
		}
		if _, err := t.bot.Send(msg); err != nil {
			return err
		}
	}

	return nil
}

func (t *Telegram) SendPhoto(chatID int64, name string, data []byte) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := t.bot.Send(photo)
	return err
}

func (t *Telegram) AnswerCallback(callbackID string) error {
	_, err := t.bot.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

// Split 按行把文本切成不超过 limit 字节的片段，单行过长时硬切
func Split(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var (
		parts []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			flush()
			cut := limit
			// 避免切断多字节字符
			for cut > 0 && !utf8Start(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			flush()
		}
		cur.WriteString(line)
	}
	flush()

	return parts
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
