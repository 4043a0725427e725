//go:build !darwin
// +build !darwin

package mididarwin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/leandrodaf/midimon/internal/logger"
	"github.com/leandrodaf/midimon/sdk/contracts"
)

func TestDummyDriverReportsNoPorts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	drv, err := NewDriver(&contracts.ClientOptions{Logger: logger.NewFromZap(zap.New(core))})
	require.NoError(t, err)
	assert.Equal(t, Name, drv.Name())
	assert.Equal(t, 1, logs.FilterMessageSnippet("dummy CoreMIDI driver").Len())

	inputs, err := drv.Inputs()
	require.NoError(t, err)
	assert.Empty(t, inputs)

	outputs, err := drv.Outputs()
	require.NoError(t, err)
	assert.Empty(t, outputs)

	_, err = drv.ListenTo(contracts.DeviceInfo{Name: "any"}, func([]byte) {})
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = drv.SendTo(contracts.DeviceInfo{Name: "any"})
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.NoError(t, drv.Close())
}
