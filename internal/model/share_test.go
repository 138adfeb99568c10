package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShareMode_Valid(t *testing.T) {
	assert.True(t, ShareModePreview.Valid())
	assert.True(t, ShareModeBrowse.Valid())
	assert.False(t, ShareMode("download").Valid())
	assert.False(t, ShareMode("").Valid())
}

func TestShare_RequiresVerification(t *testing.T) {
	tests := []struct {
		name  string
		share Share
		want  bool
	}{
		{name: "preview unverified", share: Share{Mode: ShareModePreview}, want: false},
		{name: "preview verified", share: Share{Mode: ShareModePreview, Verified: true}, want: false},
		{name: "browse unverified", share: Share{Mode: ShareModeBrowse}, want: true},
		{name: "browse verified", share: Share{Mode: ShareModeBrowse, Verified: true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.share.RequiresVerification())
		})
	}
}
