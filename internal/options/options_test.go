package options

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestHeaderText(t *testing.T) {
	require.Equal(t, []byte("monitor.bin"), HeaderText("/tmp/flex/monitor.bin"))
	require.Equal(t, []byte("ab"), HeaderText(" a\tb\x00 "))
	require.Empty(t, HeaderText(""))
	require.Len(t, HeaderText(strings.Repeat("x", 300)), 252)
}

func TestLogger(t *testing.T) {
	require.Equal(t, logrus.StandardLogger(), Logger(context.Background()))

	log, _ := test.NewNullLogger()
	ctx := WithLogger(context.Background(), log)
	require.Equal(t, log, Logger(ctx))
	require.Equal(t, ctx, WithLogger(ctx, nil))
}

func TestCleanHeader(t *testing.T) {
	require.Equal(t, []byte("FLEX 9.0"), CleanHeader([]byte("FLEX\r\n 9.0\x7F")))
	require.Equal(t, []byte{0xC3, 0xA9}, CleanHeader([]byte{0xC3, 0xA9}))
	require.Len(t, CleanHeader(bytes.Repeat([]byte("H"), 300)), 252)
	require.Empty(t, CleanHeader(nil))
}
