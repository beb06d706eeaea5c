package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/types"
)

type fakeAPI struct {
	mu sync.Mutex

	chunks      []string
	generateErr error
	// gate, when set, blocks Generate after the first chunk until closed
	gate    chan struct{}
	started chan struct{}

	createErr error
	titles    []string
	stored    []types.MessagePayload

	conv    *types.Conversation
	convErr error
}

func (f *fakeAPI) Generate(ctx context.Context, query string, onChunk func(string), attachments []client.Attachment) error {
	for i, c := range f.chunks {
		onChunk(c)
		if i == 0 && f.gate != nil {
			close(f.started)
			<-f.gate
		}
	}
	return f.generateErr
}

func (f *fakeAPI) CreateConversation(ctx context.Context, title string) (*types.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.titles = append(f.titles, title)
	return &types.Conversation{ID: "c1", Title: title}, nil
}

func (f *fakeAPI) AddMessage(ctx context.Context, id types.ID, msg types.MessagePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, msg)
	return nil
}

func (f *fakeAPI) GetConversation(ctx context.Context, id types.ID) (*types.Conversation, error) {
	return f.conv, f.convErr
}

func fixedClock(s *Session) {
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
}

func TestSubmit_PersistedExchange(t *testing.T) {
	api := &fakeAPI{chunks: []string{"He", "llo, ", "世", "界"}}
	var updates int
	s := NewSession(api, WithPersistence(), OnChange(func(Snapshot) { updates++ }))
	fixedClock(s)

	query := "  " + strings.Repeat("é", 60) + "  "
	if err := s.Submit(context.Background(), query, nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap := s.Snapshot()
	if snap.Busy || snap.ConversationID != "c1" || len(snap.Messages) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	user, assistant := snap.Messages[0], snap.Messages[1]
	if user.Role != types.RoleNameUser || user.Text != strings.Repeat("é", 60) {
		t.Errorf("user message = %+v", user)
	}
	if assistant.ID != user.ID+1 || assistant.Text != "Hello, 世界" {
		t.Errorf("assistant message = %+v", assistant)
	}

	if len(api.titles) != 1 || api.titles[0] != strings.Repeat("é", 50) {
		t.Errorf("titles = %q", api.titles)
	}
	if len(api.stored) != 2 || api.stored[0].Role != "user" || api.stored[1].Content != "Hello, 世界" {
		t.Errorf("stored = %+v", api.stored)
	}
	if updates == 0 {
		t.Error("OnChange never called")
	}

	// second exchange reuses the conversation
	if err := s.Submit(context.Background(), "again", nil); err != nil {
		t.Fatal(err)
	}
	if len(api.titles) != 1 {
		t.Errorf("conversation created twice: %q", api.titles)
	}
}

func TestSubmit_AttachmentsOnlyUsesDefaultTitle(t *testing.T) {
	api := &fakeAPI{chunks: []string{"a cat"}}
	s := NewSession(api, WithPersistence())

	err := s.Submit(context.Background(), "", []client.Attachment{{Name: "cat.png", Reader: strings.NewReader("png")}})
	if err != nil {
		t.Fatal(err)
	}
	if api.titles[0] != "New Chat" {
		t.Errorf("title = %q", api.titles[0])
	}
	if imgs := s.Snapshot().Messages[0].Images; len(imgs) != 1 || imgs[0] != "cat.png" {
		t.Errorf("images = %v", imgs)
	}
}

func TestSubmit_Empty(t *testing.T) {
	s := NewSession(&fakeAPI{})
	if err := s.Submit(context.Background(), "   ", nil); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("err = %v", err)
	}
}

func TestSubmit_BusyWhileStreaming(t *testing.T) {
	api := &fakeAPI{chunks: []string{"one", "two"}, gate: make(chan struct{}), started: make(chan struct{})}
	s := NewSession(api)

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), "first", nil) }()
	<-api.started

	if err := s.Submit(context.Background(), "second", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("second submit err = %v, want ErrBusy", err)
	}
	if !s.Snapshot().Busy {
		t.Error("expected busy while streaming")
	}

	close(api.gate)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.Busy || len(snap.Messages) != 2 || snap.Messages[1].Text != "onetwo" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestSubmit_GenerateFailure(t *testing.T) {
	api := &fakeAPI{chunks: []string{"partial"}, generateErr: &client.APIError{StatusCode: 500, Message: "boom"}}
	s := NewSession(api, WithPersistence())

	if err := s.Submit(context.Background(), "hi", nil); err == nil {
		t.Fatal("expected error")
	}
	snap := s.Snapshot()
	last, _ := snap.Last()
	if snap.Busy || len(snap.Messages) != 2 || last.Text != GenerateFailedText || last.Role != types.RoleNameAssistant {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(api.stored) != 1 {
		t.Errorf("assistant answer stored after failure: %+v", api.stored)
	}
}

func TestSubmit_BlankAnswerNotStored(t *testing.T) {
	api := &fakeAPI{chunks: []string{" ", "\n"}}
	s := NewSession(api, WithPersistence())
	if err := s.Submit(context.Background(), "hi", nil); err != nil {
		t.Fatal(err)
	}
	if len(api.stored) != 1 || api.stored[0].Role != types.RoleNameUser {
		t.Errorf("stored = %+v", api.stored)
	}
}

func TestSubmit_CreateConversationFails(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("offline")}
	s := NewSession(api, WithPersistence())

	err := s.Submit(context.Background(), "hi", nil)
	if !errors.Is(err, ErrCreateConversation) {
		t.Fatalf("err = %v", err)
	}
	if snap := s.Snapshot(); len(snap.Messages) != 0 || snap.Busy {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestNewChat_DropsAbandonedStream(t *testing.T) {
	api := &fakeAPI{chunks: []string{"old", "late"}, gate: make(chan struct{}), started: make(chan struct{})}
	s := NewSession(api)

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), "first", nil) }()
	<-api.started

	s.NewChat()
	close(api.gate)
	<-done

	snap := s.Snapshot()
	if len(snap.Messages) != 0 || snap.Busy || snap.ConversationID != "" {
		t.Errorf("abandoned stream leaked into new chat: %+v", snap)
	}
}

func TestSelectConversation(t *testing.T) {
	api := &fakeAPI{conv: &types.Conversation{ID: "c9", Messages: []types.ConversationMessage{
		{ID: "101", Role: "user", Content: "hi"},
		{ID: "abc", Role: "assistant", Content: "hello", Images: []string{"x.png"}},
	}}}
	s := NewSession(api)
	fixedClock(s)

	if err := s.SelectConversation(context.Background(), "c9"); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.ConversationID != "c9" || len(snap.Messages) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Messages[0].ID != 101 || snap.Messages[1].Text != "hello" || snap.Messages[1].Images[0] != "x.png" {
		t.Errorf("messages = %+v", snap.Messages)
	}

	api.convErr = errors.New("Error fetching conversation")
	if err := s.SelectConversation(context.Background(), "c10"); err == nil {
		t.Fatal("expected error")
	}
	snap = s.Snapshot()
	if len(snap.Messages) != 1 || snap.Messages[0].Text != LoadFailedText || snap.ConversationID != "c10" {
		t.Errorf("snapshot after failure = %+v", snap)
	}
}
