package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"glee-grades-bot/internal/models"
	"glee-grades-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler talks to.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Services struct {
	Members    *service.MemberService
	Semesters  *service.SemesterService
	Events     *service.EventService
	Attendance *service.AttendanceService
	Absences   *service.AbsenceService
	Grades     *service.GradeService
}

type Handler struct {
	bot             BotAPI
	members         *service.MemberService
	semesters       *service.SemesterService
	events          *service.EventService
	attendance      *service.AttendanceService
	absences        *service.AbsenceService
	grades          *service.GradeService
	location        *time.Location
	baseAdminChatID int64
}

func NewHandler(bot BotAPI, services Services, location *time.Location, baseAdminChatID int64) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		bot:             bot,
		members:         services.Members,
		semesters:       services.Semesters,
		events:          services.Events,
		attendance:      services.Attendance,
		absences:        services.Absences,
		grades:          services.Grades,
		location:        location,
		baseAdminChatID: baseAdminChatID,
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.CallbackQuery != nil {
			h.handleCallbackQuery(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

// handleCallbackQuery answers the RSVP inline buttons.
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	// inline-mode callbacks carry no message
	if callback.Message == nil || callback.Message.Chat == nil {
		if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			logrus.WithError(err).Warn("Failed to answer callback")
		}
		return
	}

	chatID := callback.Message.Chat.ID
	data := callback.Data

	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	if _, err := h.bot.Request(editMsg); err != nil {
		logrus.WithError(err).Warn("Failed to remove inline keyboard")
	}

	var attending bool
	var rawID string
	switch {
	case data == "confirm_delete":
		if err := h.members.DeleteProfile(chatID); err != nil {
			h.replyError(chatID, "Failed to delete profile", err)
		} else {
			h.reply(chatID, "✅ Your profile was deleted.")
		}
	case data == "cancel_delete":
		h.reply(chatID, "❌ Profile deletion cancelled.")
	case strings.HasPrefix(data, "rsvp_yes_"):
		attending, rawID = true, strings.TrimPrefix(data, "rsvp_yes_")
	case strings.HasPrefix(data, "rsvp_no_"):
		attending, rawID = false, strings.TrimPrefix(data, "rsvp_no_")
	default:
		logrus.WithField("data", data).Warn("Unknown callback data")
	}

	if rawID != "" {
		if eventID, err := parseID(rawID); err == nil {
			h.rsvp(chatID, eventID, attending)
		}
	}

	if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		logrus.WithError(err).Warn("Failed to answer callback")
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	if message.From != nil {
		logrus.Infof("[%s] %s", message.From.UserName, message.Text)
	}

	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	h.reply(message.Chat.ID, "🤖 I only understand commands. Use /help to see them.")
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

func (h *Handler) replyError(chatID int64, action string, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		h.reply(chatID, "❌ Access denied. This command is for officers only.")
	case errors.Is(err, service.ErrNoCurrentSemester):
		h.reply(chatID, "❌ No semester is active yet. An officer can start one with /semester.")
	case errors.Is(err, service.ErrEventStarted):
		h.reply(chatID, "❌ "+action+": the event has already started.")
	case errors.Is(err, service.ErrAbsenceRequired):
		h.reply(chatID, "❌ This event is required. Use /absence <eventID> <reason> to request an excused absence.")
	case errors.Is(err, service.ErrNotFound):
		h.reply(chatID, "❌ "+action+": not found.")
	default:
		logrus.WithError(err).WithField("chat_id", chatID).Warn(action)
		h.reply(chatID, "❌ "+action+": "+err.Error())
	}
}

// currentMember looks up the sender; it replies and returns nil when the
// chat has no profile yet.
func (h *Handler) currentMember(chatID int64) *models.Member {
	member, err := h.members.GetByChatID(chatID)
	if errors.Is(err, service.ErrNotFound) {
		h.reply(chatID, "❌ Profile not found.\nUse /register <first> <last> [email] to create one.")
		return nil
	}
	if err != nil {
		h.replyError(chatID, "Failed to load profile", err)
		return nil
	}
	return member
}

// currentSemester returns the active semester name or replies with the error.
func (h *Handler) currentSemester(chatID int64) (string, bool) {
	semester, err := h.semesters.Current()
	if err != nil {
		h.replyError(chatID, "Failed to load semester", err)
		return "", false
	}
	return semester.Name, true
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
