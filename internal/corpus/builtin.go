// Package corpus provides the quotes used by the typing drill.
package corpus

// Quote is one drill text with its attribution.
type Quote struct {
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
}

var builtin = []Quote{
	{Text: "Form follows function - that has been misunderstood. Form and function should be one, joined in a spiritual union.", Author: "Frank Lloyd Wright"},
	{Text: "Less is more.", Author: "Mies van der Rohe"},
	{Text: "Good design is as little design as possible.", Author: "Dieter Rams"},
	{Text: "Design is not just what it looks like and feels like. Design is how it works.", Author: "Steve Jobs"},
	{Text: "Simplicity is the ultimate sophistication.", Author: "Leonardo da Vinci"},
	{Text: "Recognizing the need is the primary condition for design.", Author: "Charles Eames"},

	{Text: "He who has a why to live can bear almost any how.", Author: "Friedrich Nietzsche"},
	{Text: "Nature does not hurry, yet everything is accomplished.", Author: "Lao Tzu"},
	{Text: "Empty your mind, be formless, shapeless - like water.", Author: "Bruce Lee"},
	{Text: "The only true wisdom is in knowing you know nothing.", Author: "Socrates"},
	{Text: "Life is really simple, but we insist on making it complicated.", Author: "Confucius"},
	{Text: "Do not dwell in the past, do not dream of the future, concentrate the mind on the present moment.", Author: "Buddha"},
	{Text: "Waste no more time arguing about what a good man should be. Be one.", Author: "Marcus Aurelius"},

	{Text: "Simplicity is the soul of efficiency.", Author: "Austin Freeman"},
	{Text: "Code is poetry written for machines to execute.", Author: "Anonymous"},
	{Text: "First, solve the problem. Then, write the code.", Author: "John Johnson"},
	{Text: "Talk is cheap. Show me the code.", Author: "Linus Torvalds"},
	{Text: "Programs must be written for people to read, and only incidentally for machines to execute.", Author: "Harold Abelson"},
	{Text: "The most damaging phrase in the language is: It's always been done this way.", Author: "Grace Hopper"},

	{Text: "The sky above the port was the color of television, tuned to a dead channel.", Author: "William Gibson"},
	{Text: "I've seen things you people wouldn't believe. Attack ships on fire off the shoulder of Orion.", Author: "Roy Batty"},
	{Text: "Any sufficiently advanced technology is indistinguishable from magic.", Author: "Arthur C. Clarke"},
	{Text: "Time is an illusion. Lunchtime doubly so.", Author: "Douglas Adams"},
	{Text: "Don't panic.", Author: "Douglas Adams"},

	{Text: "The quick brown fox jumps over the lazy dog.", Author: "Traditional"},
	{Text: "Pack my box with five dozen liquor jugs.", Author: "Traditional"},
	{Text: "Sphinx of black quartz, judge my vow.", Author: "Traditional"},
	{Text: "The five boxing wizards jump quickly.", Author: "Traditional"},
	{Text: "Rhythm and flow are the heartbeat of the written word.", Author: "Anonymous"},
	{Text: "Keyboard and mind sync in perfect harmony.", Author: "AetherBoard"},

	{Text: "Focus looks like intensity but it feels like flow.", Author: "Anonymous"},
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
	{Text: "It always seems impossible until it's done.", Author: "Nelson Mandela"},
	{Text: "Quality is not an act, it is a habit.", Author: "Aristotle"},
	{Text: "Whatever you do, do it well.", Author: "Walt Disney"},

	{Text: "Stay hungry, stay foolish.", Author: "Steve Jobs"},
	{Text: "Think different.", Author: "Apple"},
	{Text: "Make it simple, but significant.", Author: "Don Draper"},
	{Text: "Creativity is intelligence having fun.", Author: "Albert Einstein"},
}

// Builtin returns a copy of the bundled quotes.
func Builtin() []Quote {
	out := make([]Quote, len(builtin))
	copy(out, builtin)
	return out
}
