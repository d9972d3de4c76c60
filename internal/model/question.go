package model

import "strings"

// Mode identifies one of the three practice disciplines.
type Mode string

const (
	ModePhonological Mode = "1" // pick the spelling that matches a spoken word
	ModeSurface      Mode = "2" // pronounce an irregular word
	ModeRapidNaming  Mode = "3" // name a pictured item quickly
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModePhonological, ModeSurface, ModeRapidNaming}

// ParseMode validates a raw mode identifier.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(strings.TrimSpace(s)); m {
	case ModePhonological, ModeSurface, ModeRapidNaming:
		return m, true
	}
	return "", false
}

// DisplayName is the human-readable practice name used in summaries.
func (m Mode) DisplayName() string {
	switch m {
	case ModePhonological:
		return "Phonological Dyslexia"
	case ModeSurface:
		return "Surface Dyslexia"
	case ModeRapidNaming:
		return "Rapid Naming Deficit"
	}
	return ""
}

// Greeting is the opening line the tutor speaks when a mode starts.
func (m Mode) Greeting() string {
	switch m {
	case ModePhonological:
		return "Welcome to Phonological Dyslexia practice. I'll pronounce a word, and you'll select the matching spelling. Ready for your first word?"
	case ModeSurface:
		return "Welcome to Surface Dyslexia practice. I'll show you words that don't follow regular spelling rules. You'll need to pronounce them correctly. Ready to begin?"
	default:
		return "Welcome to Rapid Naming practice. I'll show you images, and you'll need to name them quickly. Are you ready?"
	}
}

// Difficulty is a tier used for sampling quotas and score weighting.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Tiers lists the recognised difficulty tiers in sampling order.
var Tiers = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Tier normalises a raw difficulty label. ok is false for missing or
// unrecognised labels; such questions belong to no tier.
func (d Difficulty) Tier() (Difficulty, bool) {
	switch t := Difficulty(strings.ToLower(strings.TrimSpace(string(d)))); t {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return t, true
	}
	return "", false
}

// Points is the score awarded for a correct answer at this difficulty.
// Unrecognised labels score as easy.
func (d Difficulty) Points() int {
	t, _ := d.Tier()
	switch t {
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 1
}

// Question is one practice item. Which fields are populated depends on the mode:
//
//	mode 1: Question, Choices, Answer
//	mode 2: Word
//	mode 3: Category, Answer, Image
type Question struct {
	ID         string     `json:"id,omitempty" yaml:"id,omitempty" bson:"_id,omitempty"`
	Mode       Mode       `json:"-" yaml:"-" bson:"mode"`
	Question   string     `json:"question,omitempty" yaml:"question,omitempty" bson:"question,omitempty"`
	Choices    []string   `json:"choices,omitempty" yaml:"choices,omitempty" bson:"choices,omitempty"`
	Answer     string     `json:"answer,omitempty" yaml:"answer,omitempty" bson:"answer,omitempty"`
	Word       string     `json:"word,omitempty" yaml:"word,omitempty" bson:"word,omitempty"`
	Category   string     `json:"category,omitempty" yaml:"category,omitempty" bson:"category,omitempty"`
	Image      string     `json:"image,omitempty" yaml:"image,omitempty" bson:"image,omitempty"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty" bson:"difficulty"`
}

// QuestionSet is the ordered list of questions sampled for one session.
type QuestionSet []Question
