package repo

import (
	"DreamInterpreter/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	// успешное создание
	u, err := r.CreateUser(ctx, &model.User{Username: "john", Email: "john@example.com", Password: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	got, err := r.GetUserByUsername(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetUserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "john", got.Username)

	// поиск по логину чувствителен к регистру
	got, err = r.GetUserByUsername(ctx, "John")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err = r.GetUserByID(ctx, 999)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	_, err := r.CreateUser(ctx, &model.User{Username: "john", Email: "a@example.com", Password: "hash"})
	require.NoError(t, err)

	// тот же username, другой email
	u, err := r.CreateUser(ctx, &model.User{Username: "john", Email: "b@example.com", Password: "x"})
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrDuplicate)

	// тот же email, другой username
	u, err = r.CreateUser(ctx, &model.User{Username: "jane", Email: "a@example.com", Password: "x"})
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrDuplicate)

	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
