package io

import (
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func TestClose(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	closed := false
	Close(closerFunc(func() error {
		closed = true
		return nil
	}))
	assert.True(t, closed)
	assert.Empty(t, hook.Entries)

	Close(closerFunc(func() error { return errors.New("broken pipe") }))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "failed to release io.closerFunc", hook.LastEntry().Message)
	assert.EqualError(t, hook.LastEntry().Data[log.ErrorKey].(error), "broken pipe")
}
