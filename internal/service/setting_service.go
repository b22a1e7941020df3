package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"
)

// TelegramSetting is the stored telegram_config document.
type TelegramSetting struct {
	BotToken            string `json:"botToken"`
	ChatID              string `json:"chatId"`
	Enabled             bool   `json:"enabled"`
	NotifyStatusChanges bool   `json:"notifyStatusChanges"`
}

// TelegramSettingPatch update payload; an empty or masked token keeps the
// stored one.
type TelegramSettingPatch struct {
	BotToken            *string `json:"botToken"`
	ChatID              *string `json:"chatId"`
	Enabled             *bool   `json:"enabled"`
	NotifyStatusChanges *bool   `json:"notifyStatusChanges"`
}

// Ready reports whether messages can be sent.
func (t TelegramSetting) Ready() bool {
	return t.Enabled && t.BotToken != "" && t.ChatID != ""
}

// Masked hides all but the last four token characters.
func (t TelegramSetting) Masked() TelegramSetting {
	t.BotToken = maskSecret(t.BotToken)
	return t
}

// SettingService reads and writes admin settings documents.
type SettingService struct {
	repo repository.SettingRepository
}

func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetByKey returns the raw document or nil.
func (s *SettingService) GetByKey(ctx context.Context, key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, storageError("get setting", err)
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update replaces the document stored under key.
func (s *SettingService) Update(ctx context.Context, key string, value models.JSON) (models.JSON, error) {
	setting, err := s.repo.Upsert(key, value)
	if err != nil {
		return nil, storageError("update setting", err)
	}
	return setting.ValueJSON, nil
}

// GetTelegram returns the unmasked telegram settings.
func (s *SettingService) GetTelegram(ctx context.Context) (TelegramSetting, error) {
	value, err := s.GetByKey(ctx, constants.SettingKeyTelegramConfig)
	if err != nil {
		return TelegramSetting{}, err
	}
	return telegramSettingFromJSON(value), nil
}

// UpdateTelegram merges patch into the stored telegram settings.
func (s *SettingService) UpdateTelegram(ctx context.Context, patch TelegramSettingPatch) (TelegramSetting, error) {
	current, err := s.GetTelegram(ctx)
	if err != nil {
		return TelegramSetting{}, err
	}
	if patch.BotToken != nil {
		token := strings.TrimSpace(*patch.BotToken)
		if token != "" && token != maskSecret(current.BotToken) {
			current.BotToken = token
		}
	}
	if patch.ChatID != nil {
		current.ChatID = strings.TrimSpace(*patch.ChatID)
	}
	if patch.Enabled != nil {
		current.Enabled = *patch.Enabled
	}
	if patch.NotifyStatusChanges != nil {
		current.NotifyStatusChanges = *patch.NotifyStatusChanges
	}
	if current.Enabled && (current.BotToken == "" || current.ChatID == "") {
		return TelegramSetting{}, invalid("botToken", "error.telegram_credentials_required")
	}
	if _, err := s.Update(ctx, constants.SettingKeyTelegramConfig, current.toJSON()); err != nil {
		return TelegramSetting{}, err
	}
	return current, nil
}

func telegramSettingFromJSON(value models.JSON) TelegramSetting {
	var out TelegramSetting
	if value == nil {
		return out
	}
	out.BotToken = strings.TrimSpace(jsonString(value["botToken"]))
	out.ChatID = strings.TrimSpace(jsonString(value["chatId"]))
	out.Enabled = jsonBool(value["enabled"])
	out.NotifyStatusChanges = jsonBool(value["notifyStatusChanges"])
	return out
}

func (t TelegramSetting) toJSON() models.JSON {
	return models.JSON{
		"botToken":            t.BotToken,
		"chatId":              t.ChatID,
		"enabled":             t.Enabled,
		"notifyStatusChanges": t.NotifyStatusChanges,
	}
}

func jsonString(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		// chat ids arrive as numbers from older clients
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func jsonBool(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	runes := []rune(secret)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
