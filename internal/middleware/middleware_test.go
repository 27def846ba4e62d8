package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedSession struct{ id uint }

func (f fixedSession) UserID() (uint, bool) { return f.id, true }
func (fixedSession) SetUserID(uint) error   { return nil }
func (fixedSession) Destroy() error         { return nil }

func TestSessionFromFallsBackToAnonymous(t *testing.T) {
	s := SessionFrom(context.Background())
	_, ok := s.UserID()
	assert.False(t, ok)
	assert.Error(t, s.SetUserID(1))
	assert.NoError(t, s.Destroy())
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := WithSession(context.Background(), fixedSession{id: 4})
	id, ok := SessionFrom(ctx).UserID()
	assert.True(t, ok)
	assert.Equal(t, uint(4), id)
}

func TestUserLoaderMissing(t *testing.T) {
	assert.Nil(t, UserLoaderFrom(context.Background()))
}
