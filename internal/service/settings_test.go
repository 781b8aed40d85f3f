package service

import (
	"context"
	"testing"

	"marketplace/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsLoadedOnceWithDefaults(t *testing.T) {
	svc, db := newTestService(t, defaultOptions())
	ctx := context.Background()

	require.NoError(t, svc.LoadSettings(ctx, domain.SiteSetting{SEOTitle: "Market"}))
	assert.Equal(t, "Market", svc.Settings().SEOTitle)

	announcement := "Maintenance on Friday"
	updated, err := svc.UpdateSettings(ctx, SettingsInput{Announcement: &announcement})
	require.NoError(t, err)
	assert.Equal(t, "Market", updated.SEOTitle)
	assert.Equal(t, announcement, svc.Settings().Announcement)

	// a restart keeps the stored row and ignores the defaults
	restarted := New(db, defaultOptions())
	require.NoError(t, restarted.LoadSettings(ctx, domain.SiteSetting{SEOTitle: "Other"}))
	assert.Equal(t, "Market", restarted.Settings().SEOTitle)
	assert.Equal(t, announcement, restarted.Settings().Announcement)

	var n int64
	require.NoError(t, db.Model(&domain.SiteSetting{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestUpdateSettingsRequiresLoad(t *testing.T) {
	svc, _ := newTestService(t, defaultOptions())
	_, err := svc.UpdateSettings(context.Background(), SettingsInput{})
	assert.Error(t, err)
}

func TestTickers(t *testing.T) {
	svc, _ := newTestService(t, defaultOptions())
	ctx := context.Background()

	usd, err := svc.AddTicker(ctx, "USD/TRY", "41.20", "+0.5%")
	require.NoError(t, err)
	_, err = svc.AddTicker(ctx, "PVC Price", "850", "-1.2%")
	require.NoError(t, err)
	_, err = svc.AddTicker(ctx, "", "1", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	list, err := svc.ListTickers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "USD/TRY", list[0].Name)

	require.NoError(t, svc.DeleteTicker(ctx, usd.ID))
	assert.ErrorIs(t, svc.DeleteTicker(ctx, usd.ID), ErrNotFound)

	list, err = svc.ListTickers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
