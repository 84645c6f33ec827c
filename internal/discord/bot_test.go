package discord

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardaslegends/legends-bot/internal/storage"
	"github.com/ardaslegends/legends-bot/pkg/jobmgr"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBot(t *testing.T, logger zerolog.Logger) *Bot {
	t.Helper()
	st, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return &Bot{storage: st, jobs: jobmgr.NewManager(zerolog.Nop()), log: logger}
}

func blockingJob(t *testing.T, b *Bot, guildID string) <-chan struct{} {
	t.Helper()
	done := make(chan struct{})
	require.NoError(t, b.jobs.StartAsync(context.Background(), syncJobName(guildID), func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return nil
	}))
	return done
}

func TestForgetGuildStopsSyncAndDropsRecord(t *testing.T) {
	b := testBot(t, zerolog.Nop())
	require.NoError(t, b.storage.SetCommandHashes("g1", map[string]string{"heal": "h"}))
	done := blockingJob(t, b, "g1")

	b.forgetGuild("g1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sync job was not cancelled")
	}
	hashes, err := b.storage.CommandHashes("g1")
	require.NoError(t, err)
	assert.Empty(t, hashes)
}

func TestForgetGuildWithoutRunningSync(t *testing.T) {
	var buf bytes.Buffer
	b := testBot(t, zerolog.New(&buf))

	b.forgetGuild("g2")
	assert.Empty(t, buf.String())
}

func TestStopJobsLogsAndWaits(t *testing.T) {
	var buf bytes.Buffer
	b := testBot(t, zerolog.New(&buf))
	done := blockingJob(t, b, "g1")

	b.stopJobs()

	select {
	case <-done:
	default:
		t.Fatal("stopJobs returned before the job finished")
	}
	assert.Contains(t, buf.String(), "Running jobs: sync-commands:g1")
	assert.Empty(t, b.jobs.List())
}
