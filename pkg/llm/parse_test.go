package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTaggedPosts(t *testing.T) {
	text := `Here are your posts:
<facebook>FB caption with #tags</facebook>
<instagram>IG caption
on two lines</instagram>
<twitter>Short take</twitter>
<video>Scene 1: open on the product.</video>`

	posts := ParseTaggedPosts(text)

	assert.Equal(t, "FB caption with #tags", posts.Facebook)
	assert.Equal(t, "IG caption\non two lines", posts.Instagram)
	assert.Equal(t, "Short take", posts.Twitter)
	assert.Equal(t, "Scene 1: open on the product.", posts.VideoScript)
}

func TestParseTaggedPostsMissingSections(t *testing.T) {
	posts := ParseTaggedPosts("<twitter>only this</twitter> and some chatter")

	assert.Empty(t, posts.Facebook)
	assert.Empty(t, posts.Instagram)
	assert.Equal(t, "only this", posts.Twitter)
}

func TestParseTaggedPostsFirstOccurrenceWins(t *testing.T) {
	posts := ParseTaggedPosts("<twitter>first</twitter><twitter>second</twitter>")
	assert.Equal(t, "first", posts.Twitter)
}

func TestFillTemplate(t *testing.T) {
	out := FillTemplate("Write about {{title}} ({{url}}): {{description}}",
		"Go 1.24", "release notes", "https://example.com")
	assert.Equal(t, "Write about Go 1.24 (https://example.com): release notes", out)
}
