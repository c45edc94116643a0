package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRunner struct {
	calls [][]string
	ip    string
	err   error
}

func (r *scriptedRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	r.calls = append(r.calls, append([]string{cmd}, args...))
	if r.err != nil {
		return "", "boom", r.err
	}
	if cmd == netInfoScript {
		return r.ip + "\n", "", nil
	}
	return "", "", nil
}

func TestShellWiFi(t *testing.T) {
	r := &scriptedRunner{ip: "192.168.1.20"}
	w := ShellWiFi{Runner: r}

	require.NoError(t, w.Join(context.Background(), " badge-net ", "pw"))
	assert.True(t, w.Online(context.Background()))
	assert.Equal(t, [][]string{{wifiScript, "join", "badge-net", "pw"}, {netInfoScript, "wifi-ip"}}, r.calls)

	assert.Error(t, w.Join(context.Background(), "  ", "pw"))

	r.ip = ""
	assert.False(t, w.Online(context.Background()))
	r.err = errors.New("exit 1")
	assert.False(t, w.Online(context.Background()))
}

func TestConnectGoesOnline(t *testing.T) {
	w := &MemoryWiFi{OnlineAfterJoin: true}
	online, err := Connect(context.Background(), w, "badge-net", "pw", 3, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, online)
	assert.Equal(t, 1, w.Joins())
}

func TestConnectGivesUp(t *testing.T) {
	w := &MemoryWiFi{}
	online, err := Connect(context.Background(), w, "badge-net", "pw", 3, time.Millisecond)
	require.NoError(t, err)
	assert.False(t, online)
}

func TestConnectWithoutSSIDOnlyChecks(t *testing.T) {
	w := &MemoryWiFi{}
	w.SetOnline(true)
	online, err := Connect(context.Background(), w, "", "", 1, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, online)
	assert.Equal(t, 0, w.Joins())
}

func TestConnectStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Connect(ctx, &MemoryWiFi{}, "badge-net", "pw", 10, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
