// Package flow drives the registration conversation: collect a code word,
// collect a phone number, persist exactly one entry per user per day.
// It is transport-agnostic; the Telegram layer translates updates in and
// replies out.
package flow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prizedraw/backend/internal/models"
	"github.com/prizedraw/backend/internal/participants"
	"github.com/prizedraw/backend/internal/validate"
)

// User identifies the person behind an inbound event. DisplayName and
// Handle are display metadata only.
type User struct {
	ID          int64
	DisplayName string
	Handle      string
}

// Keyboard hints which reply keyboard the transport should render.
type Keyboard int

const (
	// KeyboardNone removes any custom keyboard.
	KeyboardNone Keyboard = iota
	// KeyboardStart shows the restart button.
	KeyboardStart
	// KeyboardContact shows the share-contact button plus restart.
	KeyboardContact
)

// Reply is the engine's answer to one inbound event. Done marks a
// terminal outcome: the session is gone and the next message starts over.
type Reply struct {
	Text     string
	Keyboard Keyboard
	Done     bool
}

// SessionStore holds per-user conversation state.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*models.Session, error)
	Put(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, userID int64) error
}

// Store is the participation store as the engine sees it.
type Store interface {
	HasEntryToday(ctx context.Context, userID int64) (bool, error)
	TodayEntry(ctx context.Context, userID int64) (*models.ParticipantEntry, error)
	Save(ctx context.Context, e participants.NewEntry) (participants.SaveResult, error)
}

// Notifier escalates storage failures to the administrator.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Engine is the registration state machine. Events for the same user are
// serialized on a per-user lock; unrelated users never contend.
type Engine struct {
	sessions       SessionStore
	store          Store
	notifier       Notifier
	logger         *zap.Logger
	phoneMinDigits int
	locks          userLocks
}

// NewEngine creates the registration engine. notifier may be nil.
func NewEngine(sessions SessionStore, store Store, notifier Notifier, logger *zap.Logger, phoneMinDigits int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		sessions:       sessions,
		store:          store,
		notifier:       notifier,
		logger:         logger,
		phoneMinDigits: phoneMinDigits,
	}
}

// Start begins (or restarts) a registration, discarding any prior session.
func (e *Engine) Start(ctx context.Context, user User) Reply {
	defer e.locks.lock(user.ID)()

	prior, err := e.sessions.Get(ctx, user.ID)
	if err != nil {
		return e.sessionFailure(ctx, user, err)
	}
	sess := &models.Session{UserID: user.ID, Stage: models.StageAwaitingCode}
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.sessionFailure(ctx, user, err)
	}

	e.logger.Info("registration started", zap.Int64("user_id", user.ID), zap.Bool("restart", prior != nil))
	if prior != nil {
		return Reply{Text: msgRestart, Keyboard: KeyboardStart}
	}
	return Reply{Text: greeting(user), Keyboard: KeyboardStart}
}

// Cancel aborts the registration in any non-terminal state, discarding
// the session without persisting anything.
func (e *Engine) Cancel(ctx context.Context, user User) Reply {
	defer e.locks.lock(user.ID)()

	if err := e.sessions.Delete(ctx, user.ID); err != nil {
		e.logger.Warn("discard session on cancel", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	e.logger.Info("registration cancelled", zap.Int64("user_id", user.ID))
	return Reply{Text: msgCancelled, Keyboard: KeyboardStart, Done: true}
}

// Text advances the conversation with a typed message.
func (e *Engine) Text(ctx context.Context, user User, text string) Reply {
	defer e.locks.lock(user.ID)()

	sess, err := e.sessions.Get(ctx, user.ID)
	if err != nil {
		return e.sessionFailure(ctx, user, err)
	}
	if sess == nil {
		return Reply{Text: msgNoSession, Keyboard: KeyboardStart}
	}

	switch sess.Stage {
	case models.StageAwaitingCode:
		return e.acceptCodeWord(ctx, user, sess, text)
	case models.StageAwaitingPhone:
		return e.acceptPhone(ctx, user, sess, text, false)
	default:
		e.logger.Warn("unknown session stage", zap.Int64("user_id", user.ID), zap.String("stage", string(sess.Stage)))
		_ = e.sessions.Delete(ctx, user.ID)
		return Reply{Text: msgSessionExpired, Keyboard: KeyboardStart, Done: true}
	}
}

// Contact advances the conversation with a structured contact share.
func (e *Engine) Contact(ctx context.Context, user User, phone string) Reply {
	defer e.locks.lock(user.ID)()

	sess, err := e.sessions.Get(ctx, user.ID)
	if err != nil {
		return e.sessionFailure(ctx, user, err)
	}
	if sess == nil {
		return Reply{Text: msgNoSession, Keyboard: KeyboardStart}
	}
	if sess.Stage != models.StageAwaitingPhone {
		return Reply{Text: msgCodeFirst, Keyboard: KeyboardStart}
	}
	return e.acceptPhone(ctx, user, sess, phone, true)
}

func (e *Engine) acceptCodeWord(ctx context.Context, user User, sess *models.Session, text string) Reply {
	word, err := validate.CodeWord(text)
	if err != nil {
		e.logger.Info("code word rejected", zap.Int64("user_id", user.ID), zap.Error(err))
		return Reply{Text: rejectionText(err), Keyboard: KeyboardStart}
	}

	sess.CodeWord = word
	sess.Stage = models.StageAwaitingPhone
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.sessionFailure(ctx, user, err)
	}
	e.logger.Info("code word accepted", zap.Int64("user_id", user.ID), zap.String("code_word", word))
	return Reply{Text: codeAccepted(word), Keyboard: KeyboardContact}
}

func (e *Engine) acceptPhone(ctx context.Context, user User, sess *models.Session, raw string, structured bool) Reply {
	phone, err := validate.Phone(raw, structured, e.phoneMinDigits)
	if err != nil {
		e.logger.Info("phone rejected", zap.Int64("user_id", user.ID), zap.Error(err))
		return Reply{Text: rejectionText(err), Keyboard: KeyboardContact}
	}

	// A session that lost its code word is stale; never persist without one.
	if sess.CodeWord == "" {
		_ = e.sessions.Delete(ctx, user.ID)
		e.logger.Warn("session missing code word at phone stage", zap.Int64("user_id", user.ID))
		return Reply{Text: msgSessionExpired, Keyboard: KeyboardStart, Done: true}
	}

	// Fast pre-check. Not sufficient alone: the unique index behind Save
	// settles concurrent attempts.
	has, err := e.store.HasEntryToday(ctx, user.ID)
	if err != nil {
		return e.storageFailure(ctx, user, err)
	}
	if has {
		existing, lookupErr := e.store.TodayEntry(ctx, user.ID)
		if lookupErr != nil {
			e.logger.Warn("load existing entry", zap.Int64("user_id", user.ID), zap.Error(lookupErr))
		}
		_ = e.sessions.Delete(ctx, user.ID)
		e.logger.Info("registration rejected, already participated", zap.Int64("user_id", user.ID))
		return Reply{Text: alreadyParticipated(existing), Keyboard: KeyboardStart, Done: true}
	}

	result, err := e.store.Save(ctx, participants.NewEntry{
		UserID:      user.ID,
		CodeWord:    sess.CodeWord,
		DisplayName: user.DisplayName,
		Handle:      user.Handle,
		Phone:       phone,
	})
	if err != nil {
		return e.storageFailure(ctx, user, err)
	}

	_ = e.sessions.Delete(ctx, user.ID)
	if result.Conflicted() {
		// Lost the race between the pre-check and the insert; same outcome
		// as the pre-check path.
		e.logger.Info("registration conflict on save", zap.Int64("user_id", user.ID))
		return Reply{Text: alreadyParticipated(result.Existing), Keyboard: KeyboardStart, Done: true}
	}

	e.logger.Info("registration completed",
		zap.Int64("user_id", user.ID),
		zap.String("code_word", result.Entry.CodeWord),
		zap.Time("registration_time", result.Entry.RegistrationTime),
	)
	return Reply{Text: registered(user, result.Entry), Keyboard: KeyboardNone, Done: true}
}

// storageFailure reports a persistence failure: generic text to the user,
// full detail to the log and the admin channel. The session is cleared so
// the user restarts explicitly; nothing is retried automatically.
func (e *Engine) storageFailure(ctx context.Context, user User, err error) Reply {
	e.logger.Error("participation store failure", zap.Int64("user_id", user.ID), zap.Error(err))
	if e.notifier != nil {
		e.notifier.Notify(ctx, fmt.Sprintf("⚠️ Ошибка базы данных при регистрации пользователя %d: %v", user.ID, err))
	}
	_ = e.sessions.Delete(ctx, user.ID)
	return Reply{Text: msgStorageError, Keyboard: KeyboardStart, Done: true}
}

func (e *Engine) sessionFailure(ctx context.Context, user User, err error) Reply {
	e.logger.Error("session store failure", zap.Int64("user_id", user.ID), zap.Error(err))
	if e.notifier != nil {
		e.notifier.Notify(ctx, fmt.Sprintf("⚠️ Ошибка хранилища сессий для пользователя %d: %v", user.ID, err))
	}
	return Reply{Text: msgStorageError, Keyboard: KeyboardStart, Done: true}
}
