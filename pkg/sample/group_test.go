package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGroup(t *testing.T) {
	g := NewGroup("what is 2+2?", []string{"4", "four", "2+2=4"})

	assert.Equal(t, "what is 2+2?", g.Query)
	assert.Equal(t, 3, g.Size())
	assert.Equal(t, RoleAssistant, g.Predictions[0][0].Role)
	assert.Equal(t, "four", g.Predictions[1][0].Content)
}

func TestGroupSizeEmpty(t *testing.T) {
	g := &Group{Query: "q"}
	assert.Equal(t, 0, g.Size())
}
