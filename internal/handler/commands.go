package handler

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)
	case "helpofficer":
		h.sendOfficerHelpMessage(message)

	case "register":
		h.register(message, args)
	case "me", "profile":
		h.showProfile(message)
	case "updateprofile":
		h.updateProfile(message, args)
	case "deleteprofile":
		h.deleteProfile(message)
	case "join":
		h.joinSemester(message)
	case "leave":
		h.leaveSemester(message)
	case "semesters":
		h.listSemesters(message)

	case "events":
		h.listEvents(message)
	case "rsvp":
		h.handleRSVP(message, args)
	case "grades":
		h.showGrades(message, args)
	case "absence":
		h.submitAbsence(message, args)
	case "myabsences":
		h.showMyAbsences(message)

	// Officer commands
	case "newevent":
		h.createEvent(message, args)
	case "deleteevent":
		h.deleteEvent(message, args)
	case "points":
		h.setPoints(message, args)
	case "attendance":
		h.showAttendance(message, args)
	case "attend":
		h.recordAttendance(message, args)
	case "excuse":
		h.excuse(message, args)
	case "approve":
		h.decideAbsence(message, args, true)
	case "deny":
		h.decideAbsence(message, args, false)
	case "pending":
		h.showPending(message)
	case "roster":
		h.showRoster(message)
	case "semester":
		h.createSemester(message, args)
	case "current":
		h.setCurrentSemester(message, args)
	case "members":
		h.showMembers(message)

	// Admin commands
	case "promote":
		h.promote(message, args)
	case "demote":
		h.demote(message, args)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, "❌ Unknown command. Use /help to see the list of commands.")
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	text := `🎶 Welcome to the Glee Club attendance bot!

1. Create a profile with /register <first> <last> [email]
2. Join the current semester with /join
3. Check upcoming events with /events
4. Keep an eye on your grade with /grades

Use /help for the full list of commands.`

	h.reply(message.Chat.ID, text)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 Available commands:

👤 Profile:
/register <first> <last> [email] - Create your profile
/me - Show your profile
/updateprofile <first> <last> [email] - Update your profile
/deleteprofile - Delete your profile and attendance history
/join - Join the current semester
/leave - Leave the current semester
/semesters - List semesters

📅 Events:
/events - Events of the current semester
/rsvp <eventID> [yes|no] - Tell officers whether you are coming
/absence <eventID> <reason> - Request an excused absence
/myabsences - Your absence requests and their status

📊 Grades:
/grades [semester] - Your attendance grade with a per-event breakdown

🛠 Utilities:
/start - Getting started
/help - Show this message
/helpofficer - Officer commands`

	h.reply(message.Chat.ID, text)
}

func (h *Handler) sendOfficerHelpMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	member := h.currentMember(chatID)
	if member == nil {
		return
	}
	if !member.IsOfficer() {
		h.reply(chatID, "❌ Access denied. This command is for officers only.")
		return
	}

	text := `👑 Officer commands:

📅 Events:
/newevent <type>|<name>|<call>|<release>|<points>|<gigcount>
    Example: /newevent Volunteer Gig|Nursing Home|2026-09-16 18:00|2026-09-16 20:00|5|yes
    Use "-" for no release time. Types: Rehearsal, Sectional, Volunteer Gig, Tutti Gig, Ombuds, Other
/deleteevent <eventID> - Delete an event and its attendance
/points <eventID> <points> - Change the points of an event
/attendance <eventID> - Who was there
/attend <eventID> <chatID> [minutesLate] - Mark a member present
/excuse <eventID> <chatID> - Mark an event as not required for a member

📝 Absences:
/pending - Pending absence requests
/approve <eventID> <chatID> - Approve a request
/deny <eventID> <chatID> - Deny a request

📊 Semester:
/semester <name> <start> <end> - Create a semester (dates as 2006-01-02)
    Example: /semester Fall 2026 2026-08-24 2026-12-18
/current <name> - Switch the current semester
/roster - Recalculate and list everyone's grade
/members - List all members

🔧 Admin:
/promote <chatID> - Make a member an officer
/demote <chatID> - Make an officer a regular member`

	if h.baseAdminChatID != 0 {
		text += fmt.Sprintf("\n\n🔧 Main admin chat ID: %d", h.baseAdminChatID)
	}

	h.reply(chatID, text)
}
