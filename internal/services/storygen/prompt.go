package storygen

// StorytellerPrompt frames narrative composition from first-person snippets.
// Segments arrive joined with blank lines so the model perceives each one as
// its own paragraph.
const StorytellerPrompt = "You are a master storyteller. Based on the following user-provided snippets, " +
	"weave a beautiful and compelling life story. The story should be well-structured, " +
	"engaging, and reflect the tone and content of the snippets."
