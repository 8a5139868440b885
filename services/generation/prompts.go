package generation

import (
	"fmt"

	"github.com/taqh/notra-sub001/models"
)

// toneDirectives maps each supported tone to a writing instruction shared by
// every handler.
var toneDirectives = map[models.Tone]string{
	models.ToneProfessional: "Write in a clear, professional voice. Precise wording, no hype.",
	models.ToneCasual:       "Write in a relaxed, conversational voice, as if explaining to a colleague over coffee.",
	models.ToneTechnical:    "Write for a technical audience. Be specific about changes, name components and behaviors.",
	models.ToneEnthusiastic: "Write with genuine excitement about what shipped. Energetic but not salesy.",
}

func changelogPrompts(tone models.Tone, activity string) (string, string) {
	system := fmt.Sprintf(
		"You are a release-notes writer for a software product. %s "+
			"Use the tools to inspect repository activity if you need more detail, "+
			"then save the finished changelog with the create_content tool. "+
			"Group related changes, lead with user-visible improvements, and omit trivial commits.",
		toneDirectives[tone],
	)
	prompt := fmt.Sprintf(
		"Write a changelog entry covering this recent repository activity:\n\n%s\n"+
			"Save it with create_content when done.",
		activity,
	)
	return system, prompt
}

func linkedInPrompts(tone models.Tone, activity string) (string, string) {
	system := fmt.Sprintf(
		"You are a social-media writer for a software team. %s "+
			"Use the tools to inspect repository activity if you need more detail, "+
			"then save the finished post with the create_content tool. "+
			"Write a single LinkedIn post: a strong opening line, a short story about what shipped "+
			"and why it matters, no hashtag spam.",
		toneDirectives[tone],
	)
	prompt := fmt.Sprintf(
		"Write a LinkedIn post about this recent development work:\n\n%s\n"+
			"Save it with create_content when done.",
		activity,
	)
	return system, prompt
}

func twitterPrompts(tone models.Tone, activity string) (string, string) {
	system := fmt.Sprintf(
		"You are a social-media writer for a software team. %s "+
			"Use the tools to inspect repository activity if you need more detail, "+
			"then save the finished post with the create_content tool. "+
			"Write a single post under 280 characters highlighting the most interesting change.",
		toneDirectives[tone],
	)
	prompt := fmt.Sprintf(
		"Write a short post about this recent development work:\n\n%s\n"+
			"Save it with create_content when done.",
		activity,
	)
	return system, prompt
}
