package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	remote    []*discordgo.ApplicationCommand
	created   []string
	deleted   []string
	createErr map[string][]error
}

func (f *fakeAPI) ApplicationCommands(string, string, ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	return f.remote, nil
}

func (f *fakeAPI) ApplicationCommandCreate(_, _ string, c *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	if errs := f.createErr[c.Name]; len(errs) > 0 {
		f.createErr[c.Name] = errs[1:]
		return nil, errs[0]
	}
	f.created = append(f.created, c.Name)
	return c, nil
}

func (f *fakeAPI) ApplicationCommandDelete(_, _, cmdID string, _ ...discordgo.RequestOption) error {
	f.deleted = append(f.deleted, cmdID)
	return nil
}

type memHashes map[string]map[string]string

func (m memHashes) CommandHashes(guildID string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range m[guildID] {
		out[k] = v
	}
	return out, nil
}

func (m memHashes) SetCommandHashes(guildID string, hashes map[string]string) error {
	m[guildID] = hashes
	return nil
}

func restError(code int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: code, Status: http.StatusText(code)}}
}

func testSyncer(api commandAPI, hashes hashStore) *commandSyncer {
	s := newCommandSyncer(api, hashes, zerolog.Nop())
	s.limiter = nil
	s.retry.MaxAttempts = 3
	s.retry.InitialDelay = time.Millisecond
	s.retry.RateLimitDelay = time.Millisecond
	s.retry.Jitter = false
	return s
}

func chat(name, description string) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: name, Description: description, Type: discordgo.ChatApplicationCommand}
}

func TestSyncRegistersAndDeletes(t *testing.T) {
	api := &fakeAPI{remote: []*discordgo.ApplicationCommand{
		{ID: "1", Name: "heal"},
		{ID: "2", Name: "purge"},
	}}
	hashes := memHashes{}
	defs := []*discordgo.ApplicationCommand{chat("heal", "Manages the healing of armies"), chat("disband", "Disbands units")}

	require.NoError(t, testSyncer(api, hashes).Sync(context.Background(), "app", "g1", defs))

	assert.Equal(t, []string{"2"}, api.deleted)
	assert.ElementsMatch(t, []string{"heal", "disband"}, api.created)
	assert.Equal(t, hashCommand(defs[0]), hashes["g1"]["heal"])
	assert.NotContains(t, hashes["g1"], "purge")
}

func TestSyncSkipsUnchanged(t *testing.T) {
	def := chat("heal", "Manages the healing of armies")
	api := &fakeAPI{remote: []*discordgo.ApplicationCommand{{ID: "1", Name: "heal"}}}
	hashes := memHashes{"g1": {"heal": hashCommand(def)}}

	require.NoError(t, testSyncer(api, hashes).Sync(context.Background(), "app", "g1", []*discordgo.ApplicationCommand{def}))
	assert.Empty(t, api.created)
	assert.Empty(t, api.deleted)
}

func TestSyncRecreatesMissingRemote(t *testing.T) {
	def := chat("heal", "Manages the healing of armies")
	api := &fakeAPI{}
	hashes := memHashes{"g1": {"heal": hashCommand(def)}}

	require.NoError(t, testSyncer(api, hashes).Sync(context.Background(), "app", "g1", []*discordgo.ApplicationCommand{def}))
	assert.Equal(t, []string{"heal"}, api.created)
}

func TestSyncRetriesServerErrors(t *testing.T) {
	api := &fakeAPI{createErr: map[string][]error{"heal": {restError(http.StatusBadGateway), restError(http.StatusTooManyRequests)}}}

	require.NoError(t, testSyncer(api, memHashes{}).Sync(context.Background(), "app", "g1", []*discordgo.ApplicationCommand{chat("heal", "h")}))
	assert.Equal(t, []string{"heal"}, api.created)
}

func TestSyncClientErrorIsNotRetried(t *testing.T) {
	api := &fakeAPI{createErr: map[string][]error{"heal": {restError(http.StatusBadRequest), nil}}}
	hashes := memHashes{}
	defs := []*discordgo.ApplicationCommand{chat("heal", "h"), chat("disband", "d")}

	err := testSyncer(api, hashes).Sync(context.Background(), "app", "g1", defs)
	require.Error(t, err)

	var rest *discordgo.RESTError
	assert.True(t, errors.As(err, &rest))
	assert.Equal(t, http.StatusBadRequest, rest.Response.StatusCode)
	assert.Equal(t, []string{"disband"}, api.created)
	assert.NotContains(t, hashes["g1"], "heal")
	assert.Contains(t, hashes["g1"], "disband")
}

func TestSyncWithoutHashStore(t *testing.T) {
	api := &fakeAPI{}
	require.NoError(t, testSyncer(api, nil).Sync(context.Background(), "app", "g1", []*discordgo.ApplicationCommand{chat("heal", "h")}))
	assert.Equal(t, []string{"heal"}, api.created)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := errors.New("dial tcp: timeout")
	assert.Same(t, plain, classify(plain))

	var status interface{ StatusCode() int }
	require.True(t, errors.As(classify(restError(http.StatusServiceUnavailable)), &status))
	assert.Equal(t, http.StatusServiceUnavailable, status.StatusCode())
}
