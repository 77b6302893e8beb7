package llm

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`(?s)<(facebook|instagram|twitter|video)>(.*?)</(?:facebook|instagram|twitter|video)>`)

// ParseTaggedPosts extracts the per-platform sections from a model
// response. Missing tags leave the field empty; the first occurrence of a
// tag wins.
func ParseTaggedPosts(text string) *GeneratedPosts {
	posts := &GeneratedPosts{}
	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[2])
		switch m[1] {
		case "facebook":
			if posts.Facebook == "" {
				posts.Facebook = body
			}
		case "instagram":
			if posts.Instagram == "" {
				posts.Instagram = body
			}
		case "twitter":
			if posts.Twitter == "" {
				posts.Twitter = body
			}
		case "video":
			if posts.VideoScript == "" {
				posts.VideoScript = body
			}
		}
	}
	return posts
}

// FillTemplate substitutes {{title}}, {{description}} and {{url}}
// placeholders in a stored prompt template.
func FillTemplate(template, title, description, url string) string {
	r := strings.NewReplacer(
		"{{title}}", title,
		"{{description}}", description,
		"{{url}}", url,
	)
	return r.Replace(template)
}
