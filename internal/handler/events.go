package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"glee-grades-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const dateTimeLayout = "2006-01-02 15:04"

func (h *Handler) listEvents(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	semester, ok := h.currentSemester(chatID)
	if !ok {
		return
	}

	events, err := h.events.ListEvents(semester)
	if err != nil {
		h.replyError(chatID, "Failed to load events", err)
		return
	}

	h.reply(chatID, h.events.FormatEvents(events))
}

// handleRSVP records "/rsvp <id> yes|no" directly and offers buttons when the
// answer is missing.
func (h *Handler) handleRSVP(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	parts := strings.Fields(args)
	if len(parts) == 0 || len(parts) > 2 {
		h.reply(chatID, "❌ Invalid format.\nExample: /rsvp 12 yes")
		return
	}

	eventID, err := parseID(parts[0])
	if err != nil {
		h.reply(chatID, "❌ Event ID must be a number.")
		return
	}

	if len(parts) == 1 {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ I'll be there", fmt.Sprintf("rsvp_yes_%d", eventID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Can't make it", fmt.Sprintf("rsvp_no_%d", eventID)),
			),
		)
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Are you coming to event #%d?", eventID))
		msg.ReplyMarkup = keyboard
		if _, err := h.bot.Send(msg); err != nil {
			h.replyError(chatID, "Failed to send RSVP buttons", err)
		}
		return
	}

	attending, err := parseYesNo(parts[1])
	if err != nil {
		h.reply(chatID, "❌ Answer with yes or no.")
		return
	}

	h.rsvp(chatID, eventID, attending)
}

func (h *Handler) rsvp(chatID int64, eventID uint, attending bool) {
	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	if _, err := h.attendance.RSVP(member, eventID, attending); err != nil {
		h.replyError(chatID, "Failed to save RSVP", err)
		return
	}

	if attending {
		h.reply(chatID, fmt.Sprintf("✅ See you at event #%d!", eventID))
		return
	}
	h.reply(chatID, fmt.Sprintf("📝 Noted, you won't attend event #%d.", eventID))
}

// createEvent parses "<type>|<name>|<call>|<release>|<points>|<gigcount>".
func (h *Handler) createEvent(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}
	semester, ok := h.currentSemester(chatID)
	if !ok {
		return
	}

	event, err := parseEvent(args, h.location)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error()+"\nSee /helpofficer for the format.")
		return
	}
	event.Semester = semester

	if err := h.events.CreateEvent(member, event); err != nil {
		h.replyError(chatID, "Failed to create event", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Event #%d %s created for %s.", event.ID, event.Name, semester))
}

func parseEvent(args string, loc *time.Location) (*models.Event, error) {
	parts := strings.Split(args, "|")
	if len(parts) != 6 {
		return nil, fmt.Errorf("expected 6 fields separated by |, got %d", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	eventType, err := models.ParseEventType(parts[0])
	if err != nil {
		return nil, err
	}

	call, err := time.ParseInLocation(dateTimeLayout, parts[2], loc)
	if err != nil {
		return nil, fmt.Errorf("invalid call time %q, use %s", parts[2], dateTimeLayout)
	}

	var release *time.Time
	if parts[3] != "-" && parts[3] != "" {
		t, err := time.ParseInLocation(dateTimeLayout, parts[3], loc)
		if err != nil {
			return nil, fmt.Errorf("invalid release time %q, use %s", parts[3], dateTimeLayout)
		}
		release = &t
	}

	points, err := strconv.Atoi(parts[4])
	if err != nil || points < 0 {
		return nil, fmt.Errorf("points must be a non-negative number")
	}

	gigCount, err := parseYesNo(parts[5])
	if err != nil {
		return nil, fmt.Errorf("gigcount must be yes or no")
	}

	return &models.Event{
		Name:          parts[1],
		Type:          eventType,
		CallTime:      call,
		ReleaseTime:   release,
		Points:        points,
		GigCount:      gigCount,
		DefaultAttend: eventType != models.EventTypeVolunteerGig && eventType != models.EventTypeOmbuds,
	}, nil
}

func (h *Handler) deleteEvent(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	eventID, err := parseID(strings.TrimSpace(args))
	if err != nil {
		h.reply(chatID, "❌ Invalid format.\nExample: /deleteevent 12")
		return
	}

	if err := h.events.DeleteEvent(member, eventID); err != nil {
		h.replyError(chatID, "Failed to delete event", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("🗑 Event #%d deleted.", eventID))
}

func (h *Handler) setPoints(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(chatID, "❌ Invalid format.\nExample: /points 12 15")
		return
	}
	eventID, err := parseID(parts[0])
	if err != nil {
		h.reply(chatID, "❌ Event ID must be a number.")
		return
	}
	points, err := strconv.Atoi(parts[1])
	if err != nil || points < 0 {
		h.reply(chatID, "❌ Points must be a non-negative number.")
		return
	}

	event, err := h.events.SetPoints(member, eventID, points)
	if err != nil {
		h.replyError(chatID, "Failed to update event", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Event #%d %s is now worth %d points.", event.ID, event.Name, event.Points))
}

func (h *Handler) showAttendance(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	eventID, err := parseID(strings.TrimSpace(args))
	if err != nil {
		h.reply(chatID, "❌ Invalid format.\nExample: /attendance 12")
		return
	}

	rows, err := h.attendance.ForEvent(member, eventID)
	if err != nil {
		h.replyError(chatID, "Failed to load attendance", err)
		return
	}

	h.reply(chatID, h.attendance.FormatAttendance(eventID, rows))
}

func (h *Handler) recordAttendance(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 2 || len(parts) > 3 {
		h.reply(chatID, "❌ Invalid format.\nExample: /attend 12 123456789 5")
		return
	}

	eventID, targetChatID, err := parseEventAndChat(parts)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	minutesLate := 0
	if len(parts) == 3 {
		minutesLate, err = strconv.Atoi(parts[2])
		if err != nil || minutesLate < 0 {
			h.reply(chatID, "❌ Minutes late must be a non-negative number.")
			return
		}
	}

	if _, err := h.attendance.RecordAttendance(member, targetChatID, eventID, minutesLate); err != nil {
		h.replyError(chatID, "Failed to record attendance", err)
		return
	}

	text := fmt.Sprintf("✅ Attendance recorded for %d at event #%d.", targetChatID, eventID)
	if minutesLate > 0 {
		text += fmt.Sprintf(" %d minutes late.", minutesLate)
	}
	h.reply(chatID, text)
}

func (h *Handler) excuse(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(chatID, "❌ Invalid format.\nExample: /excuse 12 123456789")
		return
	}

	eventID, targetChatID, err := parseEventAndChat(parts)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	if _, err := h.attendance.Excuse(member, targetChatID, eventID); err != nil {
		h.replyError(chatID, "Failed to excuse member", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ %d no longer needs to attend event #%d.", targetChatID, eventID))
}

func parseEventAndChat(parts []string) (uint, int64, error) {
	eventID, err := parseID(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("event ID must be a number")
	}
	targetChatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("chat ID must be a number")
	}
	return eventID, targetChatID, nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "true":
		return true, nil
	case "no", "n", "false":
		return false, nil
	}
	return false, fmt.Errorf("expected yes or no, got %q", s)
}
