package handler

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// showGrades grades the sender for the given semester, or the current one.
func (h *Handler) showGrades(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	semester := strings.TrimSpace(args)
	if semester == "" {
		var ok bool
		if semester, ok = h.currentSemester(chatID); !ok {
			return
		}
	}

	result, err := h.grades.ForMember(member.ID, semester)
	if err != nil {
		h.replyError(chatID, "Failed to calculate grade", err)
		return
	}

	h.reply(chatID, h.grades.FormatGrades(result))
}

func (h *Handler) showRoster(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}
	semester, ok := h.currentSemester(chatID)
	if !ok {
		return
	}

	roster, err := h.grades.Roster(member, semester)
	if err != nil {
		h.replyError(chatID, "Failed to build roster", err)
		return
	}

	h.reply(chatID, h.grades.FormatRoster(semester, roster))
}
