package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RefreshAfterEveryMutation(t *testing.T) {
	doer := setupServer(t)
	s := NewStore(NewClient("http://todo.test", staticSession("sess"), doer))
	ctx := context.Background()

	require.NoError(t, s.Refresh(ctx))
	assert.Empty(t, s.Lists())
	assert.False(t, s.Loading())

	before := doer.count()
	require.NoError(t, s.CreateList(ctx, "Groceries", nil))
	assert.Equal(t, before+2, doer.count(), "create should be followed by one refresh")

	lists := s.Lists()
	require.Len(t, lists, 1)
	listID := lists[0].ID

	require.NoError(t, s.AddItem(ctx, listID, "Milk", nil, nil))
	require.Len(t, s.Lists()[0].Items, 1)
	itemID := s.Lists()[0].Items[0].ID

	require.NoError(t, s.AddReminder(ctx, itemID, time.Now().Add(time.Hour)))
	require.Len(t, s.Lists()[0].Items[0].Reminders, 1)

	require.NoError(t, s.ToggleArchive(ctx, listID))
	assert.Len(t, s.Archived(), 1)
	assert.Empty(t, s.Active())

	calls := doer.count()
	_ = s.Active()
	_ = s.Archived()
	assert.Equal(t, calls, doer.count(), "filters must not hit the network")

	require.NoError(t, s.DeleteList(ctx, listID))
	assert.Empty(t, s.Lists())
	assert.Equal(t, "", s.Err())
}

func TestStore_FailureMessage(t *testing.T) {
	doer := setupServer(t)
	s := NewStore(NewClient("http://todo.test", staticSession("sess"), doer))
	ctx := context.Background()

	err := s.CreateList(ctx, "", nil)
	require.Error(t, err)
	assert.Equal(t, MsgCreateListFailed, s.Err())

	err = s.DeleteItem(ctx, "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, MsgDeleteItemFailed, s.Err())

	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, "", s.Err(), "a successful refresh clears the error")
}

func TestStore_RefreshWithoutSession(t *testing.T) {
	doer := setupServer(t)
	s := NewStore(NewClient("http://todo.test", staticSession(""), doer))

	err := s.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, MsgLoadFailed, s.Err())
	assert.Equal(t, 0, doer.count())
}
