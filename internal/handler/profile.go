package handler

import (
	"errors"
	"fmt"
	"strings"

	"glee-grades-bot/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// register creates a profile from "/register <first> <last> [email]".
func (h *Handler) register(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	parts := strings.Fields(args)
	if len(parts) < 2 || len(parts) > 3 {
		h.reply(chatID, "❌ Invalid format.\nExample: /register Ada Lovelace ada@example.edu\nUse \"-\" if you have no last name.")
		return
	}

	firstName, lastName, email := parts[0], parts[1], ""
	if lastName == "-" {
		lastName = ""
	}
	if len(parts) == 3 {
		email = parts[2]
	}

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}

	member, err := h.members.Register(chatID, username, firstName, lastName, email)
	if errors.Is(err, repository.ErrMemberExists) {
		h.reply(chatID, "❌ You already have a profile! Use /me to see it.")
		return
	}
	if err != nil {
		h.replyError(chatID, "Failed to create profile", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("🎉 Profile created!\n\n%s\n\nUse /join to join the current semester.",
		h.members.FormatMember(member)))
}

// updateProfile takes the same arguments as /register.
func (h *Handler) updateProfile(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 2 || len(parts) > 3 {
		h.reply(chatID, "❌ Invalid format.\nExample: /updateprofile Ada Lovelace ada@example.edu")
		return
	}

	lastName, email := parts[1], ""
	if lastName == "-" {
		lastName = ""
	}
	if len(parts) == 3 {
		email = parts[2]
	}

	member, err := h.members.UpdateProfile(member, parts[0], lastName, email)
	if err != nil {
		h.replyError(chatID, "Failed to update profile", err)
		return
	}

	h.reply(chatID, "✅ Profile updated!\n\n"+h.members.FormatMember(member))
}

func (h *Handler) deleteProfile(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if h.currentMember(chatID) == nil {
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, delete", "confirm_delete"),
			tgbotapi.NewInlineKeyboardButtonData("❌ No, cancel", "cancel_delete"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, "⚠️ Are you sure you want to delete your profile?\nAll attendance, absence requests and grades will be removed. This cannot be undone.")
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		h.replyError(chatID, "Failed to send confirmation", err)
	}
}

func (h *Handler) showProfile(message *tgbotapi.Message) {
	member := h.currentMember(message.Chat.ID)
	if member == nil {
		return
	}
	h.reply(message.Chat.ID, h.members.FormatMember(member))
}

func (h *Handler) joinSemester(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}
	semester, ok := h.currentSemester(chatID)
	if !ok {
		return
	}

	if err := h.members.JoinSemester(member, semester); err != nil {
		h.replyError(chatID, "Failed to join semester", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ You are now active in %s. Use /events to see what's coming up.", semester))
}

func (h *Handler) leaveSemester(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}
	semester, ok := h.currentSemester(chatID)
	if !ok {
		return
	}

	if err := h.members.LeaveSemester(member, semester); err != nil {
		h.replyError(chatID, "Failed to leave semester", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("👋 You are no longer active in %s. New events will not be assigned to you.", semester))
}
