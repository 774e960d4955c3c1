package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStateTransition(t *testing.T) {

	assert.True(t, ValidStateTransition(Pending, Scheduled))
	assert.True(t, ValidStateTransition(Scheduled, Running))
	assert.True(t, ValidStateTransition(Scheduled, Failed))
	assert.True(t, ValidStateTransition(Running, Completed))
	assert.True(t, ValidStateTransition(Running, Failed))

	assert.False(t, ValidStateTransition(Pending, Running))
	assert.False(t, ValidStateTransition(Completed, Running))
	assert.False(t, ValidStateTransition(Failed, Scheduled))
}
