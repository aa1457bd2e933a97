package quiz

import (
	"fmt"
	"strings"
)

// Subject is one of the three NEET exam subjects.
type Subject string

const (
	SubjectPhysics   Subject = "Physics"
	SubjectChemistry Subject = "Chemistry"
	SubjectBiology   Subject = "Biology"
)

// Subjects lists all valid subjects in canonical order.
func Subjects() []Subject {
	return []Subject{SubjectPhysics, SubjectChemistry, SubjectBiology}
}

// ParseSubject converts a string to a Subject, accepting any casing.
// Returns an error for unknown subjects.
func ParseSubject(s string) (Subject, error) {
	for _, sub := range Subjects() {
		if strings.EqualFold(s, string(sub)) {
			return sub, nil
		}
	}
	return "", fmt.Errorf("unknown subject %q (want Physics, Chemistry, or Biology)", s)
}

// Valid reports whether the subject is one of the known values.
func (s Subject) Valid() bool {
	switch s {
	case SubjectPhysics, SubjectChemistry, SubjectBiology:
		return true
	}
	return false
}

// Code returns the short identifier used in question IDs, e.g. "PHY".
func (s Subject) Code() string {
	switch s {
	case SubjectPhysics:
		return "PHY"
	case SubjectChemistry:
		return "CHEM"
	case SubjectBiology:
		return "BIO"
	}
	return "UNK"
}

// Difficulty is the coarse difficulty band of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty converts a string to a Difficulty, accepting any casing.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want Easy, Medium, or Hard)", s)
}

// Valid reports whether the difficulty is one of the known values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
