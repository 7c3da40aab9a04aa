package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inkstudio-backend/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db, nil, nil, nil)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile_Partial(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana@example.com", 120)
	svc := NewProfileService(db, nil, nil, nil)
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Address: strPtr("Rua Augusta, 100")})
	require.NoError(t, err)

	assert.Equal(t, "Rua Augusta, 100", updated.Address)
	assert.Equal(t, user.Name, updated.Name)
	assert.Equal(t, user.Phone, updated.Phone)
	assert.Equal(t, 120, updated.LoyaltyPoints)

	updated, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: strPtr("Ana Lima"), TaxID: strPtr("123.456.789-00")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", updated.Name)
	assert.Equal(t, "123.456.789-00", updated.TaxID)
	assert.Equal(t, "Rua Augusta, 100", updated.Address)
}

func TestUpdateProfile_PublishesEvent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana@example.com", 0)
	hub := NewSessionHub()
	svc := NewProfileService(db, nil, hub, nil)

	events, cancel := hub.Subscribe(user.ID)
	defer cancel()

	_, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{Name: strPtr("Ana Lima")})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventProfileUpdated, ev.Type)
		assert.Equal(t, "Ana Lima", ev.Account.Name)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana@example.com", 0)
	admin := createAdmin(t, db, "studio@example.com")
	svc := NewProfileService(db, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: strPtr("  ")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Phone: strPtr("not a phone")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{MonthlyGoal: floatPtr(5000)})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.UpdateProfile(ctx, admin.ID, ProfileUpdate{MonthlyGoal: floatPtr(5000), LastMonthRevenue: floatPtr(3200)})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, updated.MonthlyGoal)
	assert.Equal(t, 3200.0, updated.LastMonthRevenue)

	_, err = svc.UpdateProfile(ctx, uuid.New(), ProfileUpdate{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListClients(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "ana@example.com", 0)
	createAdmin(t, db, "studio@example.com")
	createUser(t, db, "bia@example.com", 0)
	createUser(t, db, "carla@example.com", 0)
	svc := NewProfileService(db, nil, nil, nil)
	ctx := context.Background()

	first, err := svc.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	for _, c := range first {
		assert.False(t, c.IsAdmin)
	}

	second, err := svc.ListClients(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	all, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSetProfileImage(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana@example.com", 0)
	dir := t.TempDir()
	svc := NewProfileService(db, NewLocalImageStore(dir, "https://ink.example.com/"), nil, nil)

	src := image.NewRGBA(image.Rect(0, 0, 1024, 768))
	for x := 0; x < 1024; x++ {
		src.Set(x, x%768, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	updated, err := svc.SetProfileImage(context.Background(), user.ID, &buf)
	require.NoError(t, err)
	want := "https://ink.example.com/uploads/profile-images/" + user.ID.String() + ".jpg"
	assert.Equal(t, want, updated.ProfileImage)

	stored, err := imaging.Open(filepath.Join(dir, "profile-images", user.ID.String()+".jpg"))
	require.NoError(t, err)
	assert.Equal(t, 512, stored.Bounds().Dx())
	assert.Equal(t, 384, stored.Bounds().Dy())

	reloaded, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, want, reloaded.ProfileImage)
}

func TestSetProfileImage_RejectsGarbage(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana@example.com", 0)
	dir := t.TempDir()
	svc := NewProfileService(db, NewLocalImageStore(dir, ""), nil, nil)

	_, err := svc.SetProfileImage(context.Background(), user.ID, strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrValidation)

	_, statErr := os.Stat(filepath.Join(dir, "profile-images"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoyaltyHistory(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana@example.com", 0)
	ledger := newLedger(db, nil)
	profiles := NewProfileService(db, nil, nil, nil)
	ctx := context.Background()

	_, err := ledger.Create(ctx, user.ID, draftFor(models.ServiceCoverUp, "2025-03-04", "10:00"))
	require.NoError(t, err)
	_, err = ledger.Create(ctx, user.ID, draftFor(models.ServiceMinimalistPack5, "2025-03-05", "10:00"))
	require.NoError(t, err)

	history, err := profiles.LoyaltyHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	total := 0
	for _, h := range history {
		total += h.Points
	}
	assert.Equal(t, 350, total)
}
