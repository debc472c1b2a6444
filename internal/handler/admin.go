package handler

import (
	"fmt"
	"strings"
	"time"

	"glee-grades-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const dateLayout = "2006-01-02"

// createSemester parses "/semester <name> <start> <end>"; the name may
// contain spaces.
func (h *Handler) createSemester(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 3 {
		h.reply(chatID, "❌ Invalid format.\nExample: /semester Fall 2026 2026-08-24 2026-12-18")
		return
	}

	name := strings.Join(parts[:len(parts)-2], " ")
	start, err := time.ParseInLocation(dateLayout, parts[len(parts)-2], h.location)
	if err != nil {
		h.reply(chatID, "❌ Invalid start date, use "+dateLayout)
		return
	}
	end, err := time.ParseInLocation(dateLayout, parts[len(parts)-1], h.location)
	if err != nil {
		h.reply(chatID, "❌ Invalid end date, use "+dateLayout)
		return
	}

	semester, err := h.semesters.Create(member, name, start, end.AddDate(0, 0, 1))
	if err != nil {
		h.replyError(chatID, "Failed to create semester", err)
		return
	}

	text := fmt.Sprintf("✅ Semester %s created.", semester.Name)
	if semester.Current {
		text += " It is now the current semester."
	}
	h.reply(chatID, text)
}

func (h *Handler) setCurrentSemester(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	name := strings.TrimSpace(args)
	if name == "" {
		h.reply(chatID, "❌ Invalid format.\nExample: /current Spring 2027")
		return
	}

	if err := h.semesters.SetCurrent(member, name); err != nil {
		h.replyError(chatID, "Failed to switch semester", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("⭐ %s is now the current semester.", name))
}

func (h *Handler) listSemesters(message *tgbotapi.Message) {
	semesters, err := h.semesters.List()
	if err != nil {
		h.replyError(message.Chat.ID, "Failed to load semesters", err)
		return
	}

	h.reply(message.Chat.ID, h.semesters.FormatSemesters(semesters))
}

func (h *Handler) showMembers(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}
	if !member.IsOfficer() {
		h.reply(chatID, "❌ Access denied. This command is for officers only.")
		return
	}

	members, err := h.members.GetAll()
	if err != nil {
		h.replyError(chatID, "Failed to load members", err)
		return
	}
	if len(members) == 0 {
		h.reply(chatID, "👥 No members yet.")
		return
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("👥 Members (%d):", len(members)))
	lines = append(lines, "")
	for i, m := range members {
		info := fmt.Sprintf("%d. %s ", i+1, m.FullName())
		if m.Username != "" {
			info += fmt.Sprintf("(@%s) ", m.Username)
		}
		info += fmt.Sprintf("- ID: %d", m.ChatID)
		if m.IsOfficer() {
			info += " 👑"
		}
		lines = append(lines, info)
	}

	h.reply(chatID, strings.Join(lines, "\n"))
}

func (h *Handler) promote(message *tgbotapi.Message, args string) {
	h.setRole(message, args, models.RoleOfficer)
}

func (h *Handler) demote(message *tgbotapi.Message, args string) {
	h.setRole(message, args, models.RoleMember)
}

func (h *Handler) setRole(message *tgbotapi.Message, args string, role models.Role) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	if !member.IsAdmin() {
		h.reply(chatID, "❌ Access denied. This command is for admins only.")
		return
	}

	targetChatID, err := parseChatID(args)
	if err != nil {
		h.reply(chatID, "❌ Chat ID must be a number.\nExample: /promote 123456789")
		return
	}

	if role == models.RoleMember && targetChatID == h.baseAdminChatID && h.baseAdminChatID != 0 {
		h.reply(chatID, "❌ The main admin from the configuration cannot be demoted!")
		return
	}

	if err := h.members.UpdateRole(member, targetChatID, role); err != nil {
		h.replyError(chatID, "Failed to update role", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Member with ID %d is now %s.", targetChatID, role))
}
