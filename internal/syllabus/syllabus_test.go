package syllabus

import (
	"testing"

	"github.com/neetprep/neetprep/internal/quiz"
)

func TestTopicsBySubject_AllSubjectsCovered(t *testing.T) {
	for _, s := range quiz.Subjects() {
		topics := TopicsBySubject(s)
		if len(topics) == 0 {
			t.Errorf("no topics for %s", s)
		}
	}
}

func TestHasTopic(t *testing.T) {
	if !HasTopic(quiz.SubjectPhysics, "Kinematics") {
		t.Error("Kinematics missing from Physics")
	}
	if HasTopic(quiz.SubjectChemistry, "Kinematics") {
		t.Error("Kinematics reported under Chemistry")
	}
	if HasTopic(quiz.SubjectBiology, "Astrophysics") {
		t.Error("unknown topic reported present")
	}
}

func TestUnitsBySubject_CarrySubjectAndClass(t *testing.T) {
	for _, u := range UnitsBySubject(quiz.SubjectBiology) {
		if u.Subject != quiz.SubjectBiology {
			t.Errorf("unit %q has subject %s", u.Topic, u.Subject)
		}
		if u.Class != Class11 && u.Class != Class12 {
			t.Errorf("unit %q has class %q", u.Topic, u.Class)
		}
	}
}

func TestAllTopics_NoDuplicatesWithinSubject(t *testing.T) {
	seen := make(map[string]bool)
	for _, u := range AllTopics() {
		key := string(u.Subject) + "|" + u.Topic
		if seen[key] {
			t.Errorf("duplicate unit %s / %s", u.Subject, u.Topic)
		}
		seen[key] = true
	}
}
