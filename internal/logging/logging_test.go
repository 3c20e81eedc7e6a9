package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewFormatterByEnv(t *testing.T) {
	_, ok := New("prod", "debug").Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)

	_, ok = New("dev", "debug").Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

func TestNewLevel(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, New("dev", "warn").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("dev", "loud").GetLevel())
}
