package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramSettings(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		settings := NewSettingService(store.Settings())
		ctx := context.Background()

		empty, err := settings.GetTelegram(ctx)
		require.NoError(t, err)
		assert.False(t, empty.Ready())

		_, err = settings.UpdateTelegram(ctx, TelegramSettingPatch{Enabled: boolPtr(true)})
		var validation *ValidationError
		require.True(t, errors.As(err, &validation))
		assert.Equal(t, "error.telegram_credentials_required", validation.Key)

		saved, err := settings.UpdateTelegram(ctx, TelegramSettingPatch{
			BotToken: strPtr(" 123456:ABCDEFGH "),
			ChatID:   strPtr("-1001"),
			Enabled:  boolPtr(true),
		})
		require.NoError(t, err)
		assert.True(t, saved.Ready())
		assert.Equal(t, "123456:ABCDEFGH", saved.BotToken)

		masked := saved.Masked()
		assert.Equal(t, "***********EFGH", masked.BotToken)

		// posting the masked value back keeps the stored token
		updated, err := settings.UpdateTelegram(ctx, TelegramSettingPatch{
			BotToken:            strPtr(masked.BotToken),
			NotifyStatusChanges: boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "123456:ABCDEFGH", updated.BotToken)
		assert.True(t, updated.NotifyStatusChanges)

		reloaded, err := settings.GetTelegram(ctx)
		require.NoError(t, err)
		assert.Equal(t, updated, reloaded)
	})
}

func TestTelegramSettingsAcceptNumericChatID(t *testing.T) {
	store := repository.NewMemoryStore()
	settings := NewSettingService(store.Settings())
	ctx := context.Background()

	_, err := settings.Update(ctx, constants.SettingKeyTelegramConfig, models.JSON{
		"botToken": "t",
		"chatId":   float64(-1001234567890),
		"enabled":  "true",
	})
	require.NoError(t, err)

	got, err := settings.GetTelegram(ctx)
	require.NoError(t, err)
	assert.Equal(t, "-1001234567890", got.ChatID)
	assert.True(t, got.Enabled)
	assert.Equal(t, "*", got.Masked().BotToken)
}
