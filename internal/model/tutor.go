package model

// StartModeRequest is the request body for selecting a practice mode
type StartModeRequest struct {
	Mode string `json:"mode"`
}

// StartModeResponse is returned when a mode starts
type StartModeResponse struct {
	Greeting string    `json:"greeting"`
	AudioRef string    `json:"audioRef"`
	Question *Question `json:"question"`
	Mode     Mode      `json:"mode"`
}

// SubmitTurnRequest is the request body for a learner turn
type SubmitTurnRequest struct {
	Response string `json:"response"`
}

// SubmitTurnResponse is returned after a learner turn. Score fields are only
// set when the session ends. SoundsSimilar flags a wrong spelling that is a
// phonetic near miss of the answer.
type SubmitTurnResponse struct {
	Reply         string    `json:"reply"`
	AudioRef      string    `json:"audioRef"`
	Correct       bool      `json:"correct"`
	SoundsSimilar bool      `json:"soundsSimilar,omitempty"`
	NextQuestion  *Question `json:"nextQuestion,omitempty"`
	EndOfSession  bool      `json:"endOfSession,omitempty"`
	Score         *int      `json:"score,omitempty"`
	AnsweredCount *int      `json:"answeredCount,omitempty"`
}

// FinishResponse summarises a finished session
type FinishResponse struct {
	Message       string `json:"message"`
	AudioRef      string `json:"audioRef"`
	Score         int    `json:"score"`
	AnsweredCount int    `json:"answeredCount"`
}

// NarrateRequest is the request body for standalone narration
type NarrateRequest struct {
	Text string `json:"text"`
}

// NarrateResponse carries a playable audio reference
type NarrateResponse struct {
	AudioRef string `json:"audioRef"`
}

// SessionSnapshot is the read-only view of a session for the front end
type SessionSnapshot struct {
	Mode          Mode         `json:"mode,omitempty"`
	Phase         SessionPhase `json:"phase"`
	Cursor        int          `json:"cursor"`
	Total         int          `json:"total"`
	Score         int          `json:"score"`
	AnsweredCount int          `json:"answeredCount"`
	Question      *Question    `json:"question"`
}
