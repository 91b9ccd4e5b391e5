// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package triage assigns a coarse urgency level to user text from keyword
// tables. It is deliberately conservative: the highest level any phrase
// matches wins, and nothing here is a diagnosis.
package triage

import "strings"

// Level is a coarse urgency bucket.
type Level string

const (
	LevelEmergency Level = "emergency"
	LevelUrgent    Level = "urgent"
	LevelRoutine   Level = "routine"
	LevelSelfCare  Level = "self_care"
)

// Rank orders levels for comparison (self_care < routine < urgent <
// emergency).
func (l Level) Rank() int {
	switch l {
	case LevelSelfCare:
		return 1
	case LevelRoutine:
		return 2
	case LevelUrgent:
		return 3
	case LevelEmergency:
		return 4
	}
	return 0
}

// Assessment is the classifier's output: the level, the phrases that
// triggered it, and a fixed advice line for the level.
type Assessment struct {
	Level   Level    `json:"level"`
	Matched []string `json:"matched"`
	Advice  string   `json:"advice"`
}

// emergencyPhrases name symptoms that warrant an immediate emergency
// response regardless of anything else in the text.
var emergencyPhrases = []string{
	"chest pain", "crushing chest", "can't breathe", "cannot breathe",
	"difficulty breathing", "shortness of breath", "stopped breathing",
	"unconscious", "unresponsive", "not waking up",
	"stroke", "face drooping", "slurred speech", "sudden numbness",
	"severe bleeding", "bleeding heavily", "coughing up blood",
	"suicidal", "suicide", "overdose",
	"seizure", "convulsions",
	"anaphylaxis", "throat closing", "severe allergic reaction",
	"worst headache of my life", "sudden severe headache",
}

var urgentPhrases = []string{
	"high fever", "fever over 103", "fever for days",
	"severe pain", "intense pain", "unbearable pain",
	"dehydrated", "can't keep fluids down", "vomiting blood",
	"deep cut", "possible fracture", "broken bone",
	"vision loss", "sudden blurred vision",
	"stiff neck with fever",
	"pregnant and bleeding",
}

var routinePhrases = []string{
	"persistent cough", "lingering cough", "lasting more than a week",
	"getting worse", "not improving", "keeps coming back",
	"chronic", "recurring", "ongoing",
	"new mole", "changing mole",
	"medication side effect", "prescription refill",
	"mild fever",
}

var adviceByLevel = map[Level]string{
	LevelEmergency: "Call your local emergency number now. Do not wait for an online answer.",
	LevelUrgent:    "Seek in-person care today, at urgent care or your clinician's office.",
	LevelRoutine:   "Book a routine appointment with your clinician to have this looked at.",
	LevelSelfCare:  "This usually responds to rest and self-care. See a clinician if it worsens or persists.",
}

// Classify scans text against the phrase tables and returns the highest
// matching level. Text that matches nothing is self-care.
func Classify(text string) Assessment {
	lowered := strings.ToLower(text)

	tables := []struct {
		level   Level
		phrases []string
	}{
		{LevelEmergency, emergencyPhrases},
		{LevelUrgent, urgentPhrases},
		{LevelRoutine, routinePhrases},
	}

	for _, table := range tables {
		var matched []string
		for _, phrase := range table.phrases {
			if strings.Contains(lowered, phrase) {
				matched = append(matched, phrase)
			}
		}
		if len(matched) > 0 {
			return Assessment{Level: table.level, Matched: matched, Advice: adviceByLevel[table.level]}
		}
	}
	return Assessment{Level: LevelSelfCare, Matched: []string{}, Advice: adviceByLevel[LevelSelfCare]}
}
