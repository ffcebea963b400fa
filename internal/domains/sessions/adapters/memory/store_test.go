package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	assistant "github.com/Apurer/mediswift-api/internal/domains/assistant/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStore_CreateGetDelete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	session, err := domain.New("s1", time.Now())
	require.NoError(t, err)

	require.NoError(t, store.Create(ctx, session))
	require.ErrorIs(t, store.Create(ctx, session), ports.ErrExists)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "s1", got.ID)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestStore_UpdateErrorLeavesSessionUntouched(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	session, _ := domain.New("s1", time.Now())
	require.NoError(t, store.Create(ctx, session))

	boom := errors.New("boom")
	_, err := store.Update(ctx, "s1", func(s *domain.Session) error {
		s.AppendMessages(assistant.Message{Speaker: assistant.SpeakerUser, Text: "lost"})
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, got.Transcript)
}

func TestStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	session, _ := domain.New("s1", time.Now())
	require.NoError(t, store.Create(ctx, session))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "s1", func(s *domain.Session) error {
				s.AppendMessages(assistant.Message{Speaker: assistant.SpeakerUser, Text: "hi"})
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Transcript, 50)
}

func TestStore_UpdateMissing(t *testing.T) {
	_, err := NewStore().Update(context.Background(), "nope", func(*domain.Session) error { return nil })
	require.ErrorIs(t, err, ports.ErrNotFound)
}
