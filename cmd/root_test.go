package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommandOutput(t *testing.T) {
	SetVersion("1.2.3-test")

	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Equal(t, "stacmcp version 1.2.3-test\n", out.String())
}

func TestEstimateRequiresCollections(t *testing.T) {
	estimateCollections = nil
	defer func() { estimateCollections = nil }()

	err := runEstimate(estimateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--collections")
}

func TestEstimateValidatesBBoxLength(t *testing.T) {
	estimateCollections = []string{"naip"}
	estimateBBox = []float64{1, 2}
	defer func() {
		estimateCollections = nil
		estimateBBox = nil
	}()

	err := runEstimate(estimateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--bbox")
}
