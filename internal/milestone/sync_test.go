package milestone

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testSyncer(f forge.Forge, now time.Time) *Syncer {
	s := NewSyncer(f, testLogger())
	s.now = func() time.Time { return now }
	return s
}

var testRepo = model.RepoRef{Owner: "quattor", Name: "aquilon"}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSync_CreatesMissingMilestones(t *testing.T) {
	fake := newFakeForge()
	s := testSyncer(fake, date(2016, 5, 15))

	desired := GenerateCadence(3, 2, date(2016, 5, 15)) // 16.8, 16.10

	result, err := s.Sync(context.Background(), testRepo, desired)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if len(result.Created) != 2 {
		t.Fatalf("created %v, want [16.8 16.10]", result.Created)
	}
	if result.Created[0] != "16.8" || result.Created[1] != "16.10" {
		t.Errorf("created %v, want [16.8 16.10]", result.Created)
	}

	// Created with the month-end due date.
	if len(fake.created) != 2 {
		t.Fatalf("forge created %d milestones, want 2", len(fake.created))
	}
	if due := fake.created[0].DueOn; due == nil || !due.Equal(date(2016, 8, 31)) {
		t.Errorf("16.8 created with due %v, want 2016-08-31", due)
	}
}

func TestSync_Idempotent(t *testing.T) {
	now := date(2016, 5, 15)

	fake := newFakeForge(
		openMilestone(testRepo, 1, "16.6", date(2016, 6, 30)),
		openMilestone(testRepo, 2, "16.8", date(2016, 8, 31)),
		closedMilestone(testRepo, 3, "16.2", date(2016, 2, 29)),
	)
	s := testSyncer(fake, now)

	desired := []Record{
		{ID: model.NewMilestoneID(2016, 6)},
		{ID: model.NewMilestoneID(2016, 8)},
	}

	for run := 1; run <= 2; run++ {
		result, err := s.Sync(context.Background(), testRepo, desired)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if got := result.Writes(); got != 0 {
			t.Fatalf("run %d performed %d writes (%+v), want 0", run, got, result)
		}
	}
	if len(fake.edits) != 0 || len(fake.created) != 0 {
		t.Errorf("forge saw %d edits and %d creates, want none", len(fake.edits), len(fake.created))
	}
}

func TestSync_ReopensPrematurelyClosed(t *testing.T) {
	now := date(2016, 5, 15)

	fake := newFakeForge(
		closedMilestone(testRepo, 1, "16.6", date(2016, 6, 30)),
	)
	s := testSyncer(fake, now)

	result, err := s.Sync(context.Background(), testRepo, nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if len(result.Reopened) != 1 || result.Reopened[0] != "16.6" {
		t.Fatalf("reopened %v, want [16.6]", result.Reopened)
	}
	if !fake.openTitles()["16.6"] {
		t.Error("16.6 not open after sync")
	}
}

func TestSync_ClosesExpiredOpen(t *testing.T) {
	now := date(2016, 5, 15)

	fake := newFakeForge(
		openMilestone(testRepo, 1, "16.2", date(2016, 2, 29)),
	)
	s := testSyncer(fake, now)

	result, err := s.Sync(context.Background(), testRepo, nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if len(result.ClosedMs) != 1 || result.ClosedMs[0] != "16.2" {
		t.Fatalf("closed %v, want [16.2]", result.ClosedMs)
	}
	if fake.openTitles()["16.2"] {
		t.Error("16.2 still open after sync")
	}
}

func TestSync_GracePeriodKeepsDueTodayOpen(t *testing.T) {
	// Due date was this morning; within the one-day grace the milestone
	// stays open.
	now := time.Date(2016, 6, 30, 18, 0, 0, 0, time.UTC)

	fake := newFakeForge(
		openMilestone(testRepo, 1, "16.6", date(2016, 6, 30)),
	)
	s := testSyncer(fake, now)

	result, err := s.Sync(context.Background(), testRepo, []Record{{ID: model.NewMilestoneID(2016, 6)}})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := result.Writes(); got != 0 {
		t.Errorf("performed %d writes (%+v), want 0", got, result)
	}
}

func TestSync_ScheduleOverridesDueDate(t *testing.T) {
	now := date(2016, 5, 15)

	fake := newFakeForge(
		openMilestone(testRepo, 1, "16.6", date(2016, 6, 30)),
	)
	s := testSyncer(fake, now)

	target := date(2016, 6, 27)
	desired := []Record{
		{ID: model.NewMilestoneID(2016, 6), Release: &model.ScheduleEntry{Target: target}},
	}

	result, err := s.Sync(context.Background(), testRepo, desired)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if len(result.Edited) != 1 || result.Edited[0] != "16.6" {
		t.Fatalf("edited %v, want [16.6]", result.Edited)
	}
	if len(fake.edits) != 1 {
		t.Fatalf("forge saw %d edits, want 1", len(fake.edits))
	}
	if due := fake.edits[0].edit.DueOn; due == nil || !due.Equal(target) {
		t.Errorf("due set to %v, want %s", due, target.Format("2006-01-02"))
	}

	// Second run converges.
	result, err = s.Sync(context.Background(), testRepo, desired)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if got := result.Writes(); got != 0 {
		t.Errorf("second run performed %d writes, want 0", got)
	}
}

func TestSync_PointReleaseUntouched(t *testing.T) {
	now := date(2016, 5, 15)

	// Due date long past and wrong; a point release is still never edited.
	fake := newFakeForge(
		openMilestone(testRepo, 1, "16.2.1", date(2016, 2, 29)),
	)
	s := testSyncer(fake, now)

	result, err := s.Sync(context.Background(), testRepo, nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if len(result.Skipped) != 1 || result.Skipped[0] != "16.2.1" {
		t.Fatalf("skipped %v, want [16.2.1]", result.Skipped)
	}
	if len(fake.edits) != 0 {
		t.Errorf("forge saw %d edits, want 0", len(fake.edits))
	}
}

func TestSync_PointReleaseNeverMatchesBase(t *testing.T) {
	now := date(2016, 5, 15)

	// An existing 16.6.1 must not satisfy a desired 16.6.
	fake := newFakeForge(
		openMilestone(testRepo, 1, "16.6.1", date(2016, 6, 30)),
	)
	s := testSyncer(fake, now)

	desired := []Record{{ID: model.NewMilestoneID(2016, 6)}}

	result, err := s.Sync(context.Background(), testRepo, desired)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(result.Created) != 1 || result.Created[0] != "16.6" {
		t.Fatalf("created %v, want [16.6]", result.Created)
	}
}

func TestRecordHandle_Unbound(t *testing.T) {
	record := Record{ID: model.NewMilestoneID(2016, 6)}

	_, err := record.Handle()
	if err == nil {
		t.Fatal("expected error for record without remote milestone")
	}
	if _, ok := err.(*model.InvalidStateError); !ok {
		t.Errorf("error type %T, want *InvalidStateError", err)
	}
}
