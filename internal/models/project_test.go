package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectFilterIsEmpty(t *testing.T) {
	assert.True(t, ProjectFilter{}.IsEmpty())
	assert.False(t, ProjectFilter{School: "ENSA"}.IsEmpty())
	start, _ := ParseDate("2024-01-01")
	assert.False(t, ProjectFilter{StartDate: &start}.IsEmpty())
}
