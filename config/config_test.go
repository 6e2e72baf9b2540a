package config

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	c := Default()
	c.Addr = ""
	c.MinTrisPerOctant = -1
	c.LogLevel = "chatty"
	c.CacheSize = 0

	err := c.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(errors.Cause(err)), 4)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), `unknown log level "chatty"`)
}
