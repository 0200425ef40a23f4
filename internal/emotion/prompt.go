package emotion

// Prompt is the user-facing reaction text for one detected mood.
type Prompt struct {
	Emoji    string
	Title    string
	Subtitle string
}

var prompts = map[Label]Prompt{
	Happy:    {Emoji: "😄", Title: "You're looking great!", Subtitle: "Shall I play your upbeat playlist or tell a joke?"},
	Sad:      {Emoji: "😢", Title: "You look sad.", Subtitle: "Would you like me to play your playlist or tell a joke?"},
	Neutral:  {Emoji: "😐", Title: "Feeling neutral.", Subtitle: "Want some music to spice things up?"},
	Angry:    {Emoji: "😡", Title: "You seem upset.", Subtitle: "Maybe calming music would help — want me to play it?"},
	Surprise: {Emoji: "😲", Title: "Surprised!", Subtitle: "Want a fun fact or a quick laugh?"},
	Fear:     {Emoji: "😨", Title: "A bit anxious?", Subtitle: "Let's try a calm playlist or a joke."},
	Disgust:  {Emoji: "🤢", Title: "Hmm — that's odd.", Subtitle: "Maybe music or a quick laugh will help."},
}

// PromptFor returns the reaction text for a label, falling back to the
// neutral prompt for anything outside the table.
func PromptFor(l Label) Prompt {
	if p, ok := prompts[l]; ok {
		return p
	}
	return prompts[Neutral]
}

// Speech renders the spoken form of a prompt.
func (p Prompt) Speech() string {
	return p.Title + " " + p.Subtitle
}
