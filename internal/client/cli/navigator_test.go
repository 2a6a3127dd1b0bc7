package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNavigator(t *testing.T) {
	var buf bytes.Buffer
	n := newPageNavigator("", &buf)
	assert.Equal(t, "/", n.CurrentPath())

	n.Navigate("/login")
	n.Navigate("/login")
	n.Navigate("/")

	assert.Equal(t, "/", n.CurrentPath())
	assert.Equal(t, "-> /login\n-> /\n", buf.String())
}

func TestPageNavigator_NilWriter(t *testing.T) {
	n := newPageNavigator("/cart", nil)
	n.Navigate("/login")
	assert.Equal(t, "/login", n.CurrentPath())
}
