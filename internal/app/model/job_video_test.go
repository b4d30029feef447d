package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobVideoStatus_CanTransitionTo(t *testing.T) {
	all := []JobVideoStatus{StatusUploadPending, StatusUploaded, StatusProcessing, StatusProcessed, StatusFailed}
	legal := map[[2]JobVideoStatus]bool{
		{StatusUploadPending, StatusUploaded}: true,
		{StatusUploaded, StatusProcessing}:    true,
		{StatusProcessing, StatusProcessed}:   true,
		{StatusProcessing, StatusFailed}:      true,
		{StatusFailed, StatusUploaded}:        true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, legal[[2]JobVideoStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestParseJobVideoStatus(t *testing.T) {
	s, err := ParseJobVideoStatus("processing")
	assert.NoError(t, err)
	assert.Equal(t, StatusProcessing, s)

	_, err = ParseJobVideoStatus("done")
	assert.Error(t, err)
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("plumbing"))
	assert.True(t, ValidSlug("hvac-service-2"))
	assert.False(t, ValidSlug("Plumbing"))
	assert.False(t, ValidSlug("-plumbing"))
	assert.False(t, ValidSlug("plumbing--x"))
	assert.False(t, ValidSlug(""))
}

func TestJobVideoFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, JobVideoFilter{Page: 0, Limit: 20}.Offset())
	assert.Equal(t, 0, JobVideoFilter{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, JobVideoFilter{Page: 3, Limit: 20}.Offset())
}
