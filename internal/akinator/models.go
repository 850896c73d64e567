package akinator

import (
	"fmt"
	"strconv"
	"strings"
)

// Guess is one candidate the service proposes at the end of a game.
type Guess struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	AwardID             string `json:"award_id"`
	FlagPhoto           int    `json:"flag_photo"`
	Description         string `json:"description"`
	Ranking             string `json:"ranking"`
	PicturePath         string `json:"picture_path"`
	AbsolutePicturePath string `json:"absolute_picture_path"`
	Proba               string `json:"proba,omitempty"`
}

// Probability is the service's confidence in this guess, 0 when absent.
func (g Guess) Probability() float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(g.Proba), 64)
	if err != nil {
		return 0
	}
	return p
}

// State is a point-in-time copy of a Session.
type State struct {
	Language    Language `json:"language"`
	Theme       Theme    `json:"theme"`
	ChildMode   bool     `json:"childMode"`
	Started     bool     `json:"started"`
	Question    string   `json:"question"`
	Step        int      `json:"step"`
	Progression float64  `json:"progression"`
	FirstGuess  *Guess   `json:"firstGuess,omitempty"`
	Guesses     []Guess  `json:"guesses,omitempty"`
}

// --- wire records ---

type stepInfo struct {
	Step        string `json:"step"`
	Question    string `json:"question"`
	Progression string `json:"progression"`
}

// parse validates the numeric fields without touching any session state.
func (si stepInfo) parse() (step int, progression float64, err error) {
	step, err = strconv.Atoi(strings.TrimSpace(si.Step))
	if err != nil || step < 0 {
		return 0, 0, fmt.Errorf("%w: step %q", ErrParseResponse, si.Step)
	}
	progression, err = strconv.ParseFloat(strings.TrimSpace(si.Progression), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: progression %q", ErrParseResponse, si.Progression)
	}
	progression = min(max(progression, 0), 100)
	return step, progression, nil
}

type identification struct {
	Session   string `json:"session"`
	Signature string `json:"signature"`
}

type startResponse struct {
	Completion string `json:"completion"`
	Parameters *struct {
		Identification  identification `json:"identification"`
		StepInformation stepInfo       `json:"step_information"`
	} `json:"parameters"`
}

type moveResponse struct {
	Completion string    `json:"completion"`
	Parameters *stepInfo `json:"parameters"`
}

type listResponse struct {
	Completion string `json:"completion"`
	Parameters *struct {
		Elements []struct {
			Element Guess `json:"element"`
		} `json:"elements"`
	} `json:"parameters"`
}
