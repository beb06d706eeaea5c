// Package chat holds the state of one chat page: the message list, the open
// assistant message and the conversation it is saved under.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/types"
)

const (
	// GenerateFailedText replaces the open assistant message when a stream fails
	GenerateFailedText = "Sorry, something went wrong while generating a response."
	// LoadFailedText is shown when a saved conversation cannot be loaded
	LoadFailedText = "Sorry, failed to load this conversation."

	defaultTitle  = "New Chat"
	maxTitleRunes = 50
)

var (
	// ErrBusy is returned by Submit while an answer is still streaming
	ErrBusy = errors.New("an answer is still streaming")
	// ErrEmptyQuery is returned by Submit with neither text nor attachments
	ErrEmptyQuery = errors.New("query is empty")
	// ErrCreateConversation is returned when a conversation cannot be opened
	ErrCreateConversation = errors.New("Unable to create a conversation.")
)

// API is the slice of the backend a chat page calls
type API interface {
	Generate(ctx context.Context, query string, onChunk func(string), attachments []client.Attachment) error
	CreateConversation(ctx context.Context, title string) (*types.Conversation, error)
	AddMessage(ctx context.Context, id types.ID, msg types.MessagePayload) error
	GetConversation(ctx context.Context, id types.ID) (*types.Conversation, error)
}

// Message is one entry of the chat. IDs are time based and may repeat across
// rapid submissions.
type Message struct {
	ID     int64
	Role   string
	Text   string
	Images []string
}

// Snapshot is a copy of the page state
type Snapshot struct {
	ConversationID types.ID
	Messages       []Message
	Busy           bool
}

// Last returns the last message, if any
func (s Snapshot) Last() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Option configures a Session
type Option func(*Session)

// WithPersistence saves each exchange under a backend conversation
func WithPersistence() Option {
	return func(s *Session) { s.persist = true }
}

// WithConversation starts the session inside an existing conversation
func WithConversation(id types.ID) Option {
	return func(s *Session) { s.convID = id }
}

// OnChange registers a callback run after every state change
func OnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// Session is the state of one chat page. At most one assistant message is
// open at a time and it is always the last one.
type Session struct {
	api      API
	persist  bool
	onChange func(Snapshot)
	now      func() time.Time

	mu       sync.Mutex
	convID   types.ID
	messages []Message
	busy     bool
	// gen changes whenever the page state is replaced; chunks from a stream
	// started under an older gen are dropped
	gen uint64
}

// NewSession creates an empty chat page
func NewSession(api API, opts ...Option) *Session {
	s := &Session{api: api, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	msgs := make([]Message, len(s.messages))
	for i, m := range s.messages {
		m.Images = slices.Clone(m.Images)
		msgs[i] = m
	}
	return Snapshot{ConversationID: s.convID, Messages: msgs, Busy: s.busy}
}

// update runs fn under the lock when gen is still current and notifies
func (s *Session) update(gen uint64, fn func()) bool {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return false
	}
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(snap)
	}
	return true
}

func conversationTitle(query string) string {
	if query == "" {
		return defaultTitle
	}
	runes := []rune(query)
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	return string(runes)
}

// Submit sends query and streams the answer into a new assistant message.
// It returns ErrBusy while a previous answer is still streaming.
func (s *Session) Submit(ctx context.Context, query string, attachments []client.Attachment) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" && len(attachments) == 0 {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	gen := s.gen
	convID := s.convID
	s.mu.Unlock()

	release := func() {
		s.update(gen, func() { s.busy = false })
	}

	if s.persist && convID.IsZero() {
		conv, err := s.api.CreateConversation(ctx, conversationTitle(trimmed))
		if err != nil {
			slog.WarnContext(ctx, "failed to create conversation", "error", err)
			release()
			return errors.Join(ErrCreateConversation, err)
		}
		convID = conv.ID
		if !s.update(gen, func() { s.convID = convID }) {
			return nil
		}
	}

	images := make([]string, 0, len(attachments))
	for _, a := range attachments {
		images = append(images, a.Name)
	}
	userID := s.now().UnixMilli()
	opened := s.update(gen, func() {
		s.messages = append(s.messages,
			Message{ID: userID, Role: types.RoleNameUser, Text: trimmed, Images: images},
			Message{ID: userID + 1, Role: types.RoleNameAssistant},
		)
	})
	if !opened {
		return nil
	}

	var answer strings.Builder
	err := func() error {
		if s.persist {
			if err := s.api.AddMessage(ctx, convID, types.MessagePayload{Role: types.RoleNameUser, Content: trimmed}); err != nil {
				return err
			}
		}

		err := s.api.Generate(ctx, trimmed, func(chunk string) {
			answer.WriteString(chunk)
			s.update(gen, func() {
				last := len(s.messages) - 1
				if last >= 0 && s.messages[last].Role == types.RoleNameAssistant {
					s.messages[last].Text += chunk
				}
			})
		}, attachments)
		if err != nil {
			return err
		}

		if s.persist && strings.TrimSpace(answer.String()) != "" {
			return s.api.AddMessage(ctx, convID, types.MessagePayload{Role: types.RoleNameAssistant, Content: answer.String()})
		}
		return nil
	}()

	if err != nil {
		slog.WarnContext(ctx, "chat exchange failed", "error", err)
		s.update(gen, func() {
			last := len(s.messages) - 1
			if last >= 0 {
				s.messages[last] = Message{Role: types.RoleNameAssistant, Text: GenerateFailedText}
			}
			s.busy = false
		})
		return err
	}

	release()
	return nil
}

// NewChat resets the page. A stream still running keeps going but its chunks
// are no longer applied.
func (s *Session) NewChat() {
	s.mu.Lock()
	s.gen++
	s.messages = nil
	s.convID = ""
	s.busy = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(snap)
	}
}

// SelectConversation replaces the page with a saved conversation. On failure
// the page shows a single apology message.
func (s *Session) SelectConversation(ctx context.Context, id types.ID) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.convID = id
	s.busy = false
	s.mu.Unlock()

	conv, err := s.api.GetConversation(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "failed to load conversation", "conversation_id", id, "error", err)
		s.update(gen, func() {
			s.messages = []Message{{ID: s.now().UnixMilli(), Role: types.RoleNameAssistant, Text: LoadFailedText}}
		})
		return err
	}

	base := s.now().UnixMilli()
	msgs := make([]Message, 0, len(conv.Messages))
	for i, m := range conv.Messages {
		msgID, perr := strconv.ParseInt(m.ID.String(), 10, 64)
		if perr != nil {
			msgID = base + int64(i)
		}
		msgs = append(msgs, Message{ID: msgID, Role: m.Role, Text: m.Content, Images: slices.Clone(m.Images)})
	}
	s.update(gen, func() { s.messages = msgs })
	return nil
}
