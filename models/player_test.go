package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("Ludvig Åberg")
	require.NotNil(t, p.FirstName)
	require.NotNil(t, p.LastName)
	assert.Equal(t, "Ludvig", *p.FirstName)
	assert.Equal(t, "Åberg", *p.LastName)
	assert.True(t, p.Active)

	p = NewPlayer("Byeong Hun An Jr.")
	assert.Equal(t, "Byeong", *p.FirstName)
	assert.Equal(t, "Hun An Jr.", *p.LastName)

	p = NewPlayer("Madonna")
	assert.Equal(t, "Madonna", *p.FirstName)
	assert.Nil(t, p.LastName)

	p = NewPlayer("")
	assert.Nil(t, p.FirstName)
	assert.Nil(t, p.LastName)
}

func TestScoringName(t *testing.T) {
	blank, active := " ", "Jon Rahm"
	assert.Equal(t, "Tiger Woods", (&Pick{PrimaryPlayer: "Tiger Woods"}).ScoringName())
	assert.Equal(t, "Tiger Woods", (&Pick{PrimaryPlayer: "Tiger Woods", ActivePlayer: &blank}).ScoringName())
	assert.Equal(t, "Jon Rahm", (&Pick{PrimaryPlayer: "Tiger Woods", ActivePlayer: &active}).ScoringName())
}
