package handler

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// submitAbsence files "/absence <eventID> <reason>".
func (h *Handler) submitAbsence(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	rawID, reason, _ := strings.Cut(strings.TrimSpace(args), " ")
	if rawID == "" || strings.TrimSpace(reason) == "" {
		h.reply(chatID, `📝 Absence request

Format:
/absence <eventID> <reason>

Example:
/absence 12 Midterm exam at the same time

💡 You can update a request until an officer decides on it.`)
		return
	}

	eventID, err := parseID(rawID)
	if err != nil {
		h.reply(chatID, "❌ Event ID must be a number.")
		return
	}

	request, err := h.absences.Submit(member, eventID, reason)
	if err != nil {
		h.replyError(chatID, "Failed to submit absence request", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Absence request for event #%d submitted. An officer will review it.", eventID))
	h.notifyOfficers(fmt.Sprintf("📝 New absence request from %s (chat %d) for event #%d: %s\n/approve %d %d or /deny %d %d",
		member.FullName(), chatID, eventID, request.Reason, eventID, chatID, eventID, chatID))
}

func (h *Handler) notifyOfficers(text string) {
	officers, err := h.members.GetOfficers()
	if err != nil {
		logrus.WithError(err).Warn("Failed to load officers for notification")
		return
	}
	for _, officer := range officers {
		h.reply(officer.ChatID, text)
	}
}

func (h *Handler) showMyAbsences(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	requests, err := h.absences.ForMember(member)
	if err != nil {
		h.replyError(chatID, "Failed to load absence requests", err)
		return
	}

	h.reply(chatID, h.absences.FormatRequests(requests))
}

func (h *Handler) decideAbsence(message *tgbotapi.Message, args string, approve bool) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	command := "deny"
	if approve {
		command = "approve"
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(chatID, fmt.Sprintf("❌ Invalid format.\nExample: /%s 12 123456789", command))
		return
	}

	eventID, targetChatID, err := parseEventAndChat(parts)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	if approve {
		err = h.absences.Approve(member, targetChatID, eventID)
	} else {
		err = h.absences.Deny(member, targetChatID, eventID)
	}
	if err != nil {
		h.replyError(chatID, "Failed to "+command+" absence request", err)
		return
	}

	verdict := "❌ denied"
	if approve {
		verdict = "✅ approved"
	}
	h.reply(chatID, fmt.Sprintf("Absence request of %d for event #%d %s.", targetChatID, eventID, verdict))
	h.reply(targetChatID, fmt.Sprintf("📝 Your absence request for event #%d was %s.", eventID, verdict))
}

func (h *Handler) showPending(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}
	semester, ok := h.currentSemester(chatID)
	if !ok {
		return
	}

	requests, err := h.absences.Pending(member, semester)
	if err != nil {
		h.replyError(chatID, "Failed to load absence requests", err)
		return
	}

	h.reply(chatID, h.absences.FormatPending(requests))
}

func parseChatID(args string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(args), 10, 64)
}
