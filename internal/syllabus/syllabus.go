// Package syllabus holds the NEET syllabus: the canonical list of topics
// per subject and class. Topics are free-form strings elsewhere in the
// system; the syllabus is advisory. It seeds generation and the syllabus
// view, but a question may carry a topic outside this list.
package syllabus

import (
	"sort"
	"strings"

	"github.com/neetprep/neetprep/internal/quiz"
)

// Class is the school class a topic belongs to.
type Class string

const (
	Class11 Class = "Class 11"
	Class12 Class = "Class 12"
)

// Unit is one syllabus unit: a topic with its subject and class.
type Unit struct {
	Subject quiz.Subject
	Class   Class
	Topic   string
}

// bySubject indexes seed units by subject.
var bySubject map[quiz.Subject][]Unit

func init() {
	bySubject = make(map[quiz.Subject][]Unit)
	for _, u := range seedUnits {
		bySubject[u.Subject] = append(bySubject[u.Subject], u)
	}
}

// TopicsBySubject returns every syllabus topic for a subject, in seed
// order (Class 11 before Class 12).
func TopicsBySubject(subject quiz.Subject) []string {
	units := bySubject[subject]
	topics := make([]string, 0, len(units))
	for _, u := range units {
		topics = append(topics, u.Topic)
	}
	return topics
}

// UnitsBySubject returns the syllabus units for a subject.
func UnitsBySubject(subject quiz.Subject) []Unit {
	return bySubject[subject]
}

// HasTopic reports whether topic appears in the syllabus for subject.
// Matching is case-insensitive.
func HasTopic(subject quiz.Subject, topic string) bool {
	for _, u := range bySubject[subject] {
		if strings.EqualFold(u.Topic, topic) {
			return true
		}
	}
	return false
}

// AllTopics returns every (subject, topic) pair across the syllabus,
// sorted by subject then topic.
func AllTopics() []Unit {
	var all []Unit
	for _, sub := range quiz.Subjects() {
		all = append(all, bySubject[sub]...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Subject != all[j].Subject {
			return all[i].Subject < all[j].Subject
		}
		return all[i].Topic < all[j].Topic
	})
	return all
}
