package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlatform(t *testing.T) {
	cases := []struct {
		in   string
		want Platform
	}{
		{"facebook", PlatformFacebook},
		{"Facebook", PlatformFacebook},
		{"INSTAGRAM", PlatformInstagram},
		{"twitter", PlatformTwitter},
		{"Twitter/X", PlatformTwitter},
		{"x", PlatformTwitter},
		{" facebook ", PlatformFacebook},
	}
	for _, c := range cases {
		got, err := ParsePlatform(c.in)
		assert.NoError(t, err, c.in)
		assert.Equal(t, c.want, got)
	}

	_, err := ParsePlatform("tiktok")
	assert.Error(t, err)
}

func TestParsePublishStatus(t *testing.T) {
	got, err := ParsePublishStatus("")
	assert.NoError(t, err)
	assert.Equal(t, StatusNotPublished, got)

	got, err = ParsePublishStatus("Ready_to_Publish")
	assert.NoError(t, err)
	assert.Equal(t, StatusReadyToPublish, got)

	_, err = ParsePublishStatus("ready to publish")
	assert.Error(t, err)

	_, err = ParsePublishStatus("Archived")
	assert.Error(t, err)
}

func TestPublishStatusTerminal(t *testing.T) {
	assert.True(t, StatusPublished.Terminal())
	assert.True(t, StatusScheduled.Terminal())
	assert.False(t, StatusPublishing.Terminal())
	assert.False(t, StatusFailed.Terminal())
}

func TestTargetedPlatformsSplitsLegacyStrings(t *testing.T) {
	item := ContentItem{PublishPlatforms: []Platform{"facebook, twitter", "facebook"}}
	assert.Equal(t, []Platform{PlatformFacebook, PlatformTwitter}, item.TargetedPlatforms())
}

func TestSnapshotEqual(t *testing.T) {
	item := ContentItem{ID: 7, PublishStatus: "Publishing", FacebookStatus: "Published"}
	a := item.Snapshot()
	b := item.Snapshot()
	assert.True(t, a.Equal(b))

	item.TwitterStatus = "Failed"
	assert.False(t, a.Equal(item.Snapshot()))
}
