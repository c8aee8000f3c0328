package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/mailtodo/internal/model"
	"github.com/nhle/mailtodo/internal/store"
	"github.com/nhle/mailtodo/tests/testutil"
)

func testMessage(fingerprint string) model.Message {
	return model.Message{
		ReceivedAt:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Subject:         "과제 제출 안내",
		Body:            "3월 10일까지 제출해 주세요",
		Sender:          "prof@example.ac.kr",
		Fingerprint:     fingerprint,
		TodoFlag:        model.FlagTodo,
		Deadline:        "2025/03/10",
		CompletionState: model.CompletionOpen,
	}
}

func TestInsertMessageIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, inserted, err := s.InsertMessage(ctx, testMessage("fp-1"))
	if err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}
	if !inserted || id == "" {
		t.Fatalf("first insert: inserted=%v id=%q", inserted, id)
	}

	// Same fingerprint again: no new row, same id back.
	dup := testMessage("fp-1")
	dup.Subject = "changed subject"
	id2, inserted2, err := s.InsertMessage(ctx, dup)
	if err != nil {
		t.Fatalf("InsertMessage duplicate: %v", err)
	}
	if inserted2 {
		t.Error("duplicate fingerprint was inserted")
	}
	if id2 != id {
		t.Errorf("duplicate insert returned id %q, want %q", id2, id)
	}

	msgs, err := s.ListMessages(ctx, store.MessageFilter{})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("stored %d messages, want 1", len(msgs))
	}
	if msgs[0].Subject != "과제 제출 안내" {
		t.Errorf("stored subject = %q, first write did not win", msgs[0].Subject)
	}
}

func TestInsertMessageRequiresFingerprint(t *testing.T) {
	s := testutil.NewTestStore(t)

	m := testMessage("")
	if _, _, err := s.InsertMessage(context.Background(), m); err == nil {
		t.Error("InsertMessage accepted an empty fingerprint")
	}
}

func TestMessageExists(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	exists, err := s.MessageExists(ctx, "fp-1")
	if err != nil {
		t.Fatalf("MessageExists: %v", err)
	}
	if exists {
		t.Error("MessageExists true before insert")
	}

	if _, _, err := s.InsertMessage(ctx, testMessage("fp-1")); err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}

	exists, err = s.MessageExists(ctx, "fp-1")
	if err != nil {
		t.Fatalf("MessageExists: %v", err)
	}
	if !exists {
		t.Error("MessageExists false after insert")
	}
}

func TestGetMessageByFingerprint(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	got, err := s.GetMessageByFingerprint(ctx, "missing")
	if err != nil {
		t.Fatalf("GetMessageByFingerprint: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v for missing fingerprint, want nil", got)
	}

	if _, _, err := s.InsertMessage(ctx, testMessage("fp-1")); err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}

	got, err = s.GetMessageByFingerprint(ctx, "fp-1")
	if err != nil {
		t.Fatalf("GetMessageByFingerprint: %v", err)
	}
	if got == nil {
		t.Fatal("message not found after insert")
	}
	if got.TodoFlag != model.FlagTodo || got.Deadline != "2025/03/10" {
		t.Errorf("round-trip lost fields: %+v", got)
	}
	if !got.ReceivedAt.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("ReceivedAt = %v", got.ReceivedAt)
	}
}

func TestListMessagesFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo := testMessage("fp-todo")
	notTodo := testMessage("fp-not")
	notTodo.TodoFlag = model.FlagNotTodo
	excluded := testMessage("fp-excl")
	excluded.CompletionState = model.CompletionExcluded

	for _, m := range []model.Message{todo, notTodo, excluded} {
		if _, _, err := s.InsertMessage(ctx, m); err != nil {
			t.Fatalf("InsertMessage: %v", err)
		}
	}

	flag := model.FlagTodo
	msgs, err := s.ListMessages(ctx, store.MessageFilter{TodoFlag: &flag})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("todo-flagged: got %d, want 2", len(msgs))
	}

	state := model.CompletionExcluded
	msgs, err = s.ListMessages(ctx, store.MessageFilter{CompletionState: &state})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Fingerprint != "fp-excl" {
		t.Errorf("excluded filter returned %+v", msgs)
	}

	msgs, err = s.ListMessages(ctx, store.MessageFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("limit 2: got %d rows", len(msgs))
	}
}

func TestSetMessageFlagAndCompletion(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if _, _, err := s.InsertMessage(ctx, testMessage("fp-1")); err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}

	if err := s.SetMessageTodoFlag(ctx, "fp-1", model.FlagNotTodo); err != nil {
		t.Fatalf("SetMessageTodoFlag: %v", err)
	}
	if err := s.SetMessageCompletion(ctx, "fp-1", model.CompletionCompleted); err != nil {
		t.Fatalf("SetMessageCompletion: %v", err)
	}

	got, err := s.GetMessageByFingerprint(ctx, "fp-1")
	if err != nil {
		t.Fatalf("GetMessageByFingerprint: %v", err)
	}
	if got.TodoFlag != model.FlagNotTodo {
		t.Errorf("TodoFlag = %v", got.TodoFlag)
	}
	if got.CompletionState != model.CompletionCompleted {
		t.Errorf("CompletionState = %q", got.CompletionState)
	}

	if err := s.SetMessageTodoFlag(ctx, "missing", model.FlagTodo); err == nil {
		t.Error("SetMessageTodoFlag succeeded for a missing message")
	}
	if err := s.SetMessageCompletion(ctx, "missing", model.CompletionOpen); err == nil {
		t.Error("SetMessageCompletion succeeded for a missing message")
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	cp, err := s.GetCheckpoint(ctx)
	if err != nil {
		t.Fatalf("GetCheckpoint: %v", err)
	}
	if cp != nil {
		t.Errorf("fresh store checkpoint = %v, want nil", cp)
	}

	want := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := s.SetCheckpoint(ctx, want); err != nil {
		t.Fatalf("SetCheckpoint: %v", err)
	}

	cp, err = s.GetCheckpoint(ctx)
	if err != nil {
		t.Fatalf("GetCheckpoint: %v", err)
	}
	if cp == nil || !cp.Equal(want) {
		t.Errorf("checkpoint = %v, want %v", cp, want)
	}
}

func TestKeywordCRUD(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.AddKeyword(ctx, "스터디"); err != nil {
		t.Fatalf("AddKeyword: %v", err)
	}
	// Duplicates are tolerated.
	if err := s.AddKeyword(ctx, "스터디"); err != nil {
		t.Fatalf("AddKeyword duplicate: %v", err)
	}
	if err := s.AddKeyword(ctx, "  "); err == nil {
		t.Error("AddKeyword accepted a blank keyword")
	}

	keywords, err := s.GetKeywords(ctx)
	if err != nil {
		t.Fatalf("GetKeywords: %v", err)
	}
	if len(keywords) != 1 || keywords[0] != "스터디" {
		t.Errorf("GetKeywords = %v", keywords)
	}

	if err := s.UpdateKeyword(ctx, "스터디", "세미나"); err != nil {
		t.Fatalf("UpdateKeyword: %v", err)
	}
	if err := s.UpdateKeyword(ctx, "없는말", "x"); err == nil {
		t.Error("UpdateKeyword succeeded for a missing keyword")
	}

	if err := s.DeleteKeyword(ctx, "세미나"); err != nil {
		t.Fatalf("DeleteKeyword: %v", err)
	}
	if err := s.DeleteKeyword(ctx, "세미나"); err == nil {
		t.Error("DeleteKeyword succeeded twice")
	}
}

func TestTrainingSamples(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	count, err := s.CountTrainingSamples(ctx)
	if err != nil {
		t.Fatalf("CountTrainingSamples: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh corpus size = %d", count)
	}

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	samples := []model.TrainingSample{
		{Text: "과제 제출", IsTodo: true, CreatedAt: base},
		{Text: "점심 잡담", IsTodo: false, CreatedAt: base.Add(time.Second)},
	}
	for _, sample := range samples {
		if err := s.AppendTrainingSample(ctx, sample); err != nil {
			t.Fatalf("AppendTrainingSample: %v", err)
		}
	}

	got, err := s.ListTrainingSamples(ctx)
	if err != nil {
		t.Fatalf("ListTrainingSamples: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("corpus size = %d, want 2", len(got))
	}
	if got[0].Text != "과제 제출" || !got[0].IsTodo {
		t.Errorf("first sample = %+v", got[0])
	}
	if got[1].Text != "점심 잡담" || got[1].IsTodo {
		t.Errorf("second sample = %+v", got[1])
	}

	count, err = s.CountTrainingSamples(ctx)
	if err != nil {
		t.Fatalf("CountTrainingSamples: %v", err)
	}
	if count != 2 {
		t.Errorf("corpus size = %d, want 2", count)
	}
}
