package handler

import (
	"context"
	"sync"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/lookup"
	"lexibot/internal/middleware"
	"lexibot/internal/notify"
	"lexibot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Generator is the part of the API client behind the generator features
type Generator interface {
	GenerateJoke(ctx context.Context, prompt string) (*domain.Joke, error)
	GenerateCaption(ctx context.Context, prompt string) (*domain.Caption, error)
	HealthCheck(ctx context.Context) (*domain.Health, error)
}

// Messenger sends and edits messages outside a handler's own reply.
// *tele.Bot implements it.
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Deps are the collaborators of a Handler
type Deps struct {
	Bot       *tele.Bot
	Auth      *service.AuthService
	Profiles  *service.ProfileService
	Gate      *service.Gate
	Definer   lookup.Definer
	API       Generator
	Notices   *notify.Registry
	Limiter   *middleware.RateLimiter
	MockDelay time.Duration
	Logger    *zap.Logger
}

// Handler manages all bot interactions
type Handler struct {
	bot       *tele.Bot
	sender    Messenger
	auth      *service.AuthService
	profiles  *service.ProfileService
	gate      *service.Gate
	definer   lookup.Definer
	api       Generator
	notices   *notify.Registry
	limiter   *middleware.RateLimiter
	mockDelay time.Duration
	logger    *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// One definition request machine per chat
	machines   map[int64]*lookup.Machine
	machineMux sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		bot:       deps.Bot,
		auth:      deps.Auth,
		profiles:  deps.Profiles,
		gate:      deps.Gate,
		definer:   deps.Definer,
		api:       deps.API,
		notices:   deps.Notices,
		limiter:   deps.Limiter,
		mockDelay: deps.MockDelay,
		logger:    deps.Logger,
		states:    make(map[int64]*domain.StateData),
		machines:  make(map[int64]*lookup.Machine),
	}
	if deps.Bot != nil {
		h.sender = deps.Bot
	}
	return h
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	requireAuth := middleware.RequireAuth(h.gate, h.logger)
	requireSub := middleware.RequireSubscription(h.gate, h.logger)

	// Public commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/signin", h.handleSignIn)
	h.bot.Handle("/signup", h.handleSignUp)
	h.bot.Handle("/signout", h.handleSignOut)
	h.bot.Handle("/cancel", h.handleCancel)
	h.bot.Handle("/health", h.handleHealth, h.limiter.Middleware())

	// Signed-in commands
	h.bot.Handle("/dashboard", h.handleDashboard, requireAuth)
	h.bot.Handle("/define", h.handleDefine, requireAuth)
	h.bot.Handle("/mock", h.handleMockToggle, requireAuth)
	h.bot.Handle("/notifications", h.handleNotifications, requireAuth)

	// Subscription features
	h.bot.Handle("/joke", h.handleJoke, requireSub)
	h.bot.Handle("/caption", h.handleCaption, requireSub)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnNewLookup, h.handleNewLookup)
	h.bot.Handle(&btnDismiss, h.handleDismiss)
	h.bot.Handle(&btnMockToggle, h.handleMockToggle, requireAuth)
	h.bot.Handle(&btnDashboard, h.handleDashboard, requireAuth)
	h.bot.Handle(&btnClearNotices, h.handleClearNotices)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(chatID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[chatID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(chatID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[chatID] = state
}

// ResetState resets user to idle state, keeping the mock preference
func (h *Handler) ResetState(chatID int64) {
	h.SetState(chatID, &domain.StateData{
		State:   domain.StateIdle,
		UseMock: h.GetState(chatID).UseMock,
	})
}

// machineFor returns the lookup machine of chatID, creating it on first use.
// Failed lookups are also recorded as notifications.
func (h *Handler) machineFor(chatID int64) *lookup.Machine {
	h.machineMux.Lock()
	defer h.machineMux.Unlock()

	if m, ok := h.machines[chatID]; ok {
		return m
	}

	m := lookup.New(h.definer, lookup.Options{
		MockDelay: h.mockDelay,
		Logger:    h.logger.With(zap.Int64("chat_id", chatID)),
	})
	store := h.notices.For(chatID)
	m.Subscribe(func(s lookup.Snapshot) {
		if s.IsError() {
			store.Notify(domain.Notification{
				Title:       "Lookup failed",
				Description: s.ErrorMessage(),
				Variant:     domain.VariantDestructive,
			})
		}
	})

	h.machines[chatID] = m
	return m
}

// chatContext carries the chat id so the API client can find its token
func chatContext(chatID int64) context.Context {
	return service.WithChatID(context.Background(), chatID)
}

// Inline keyboard buttons
var (
	btnNewLookup = tele.Btn{
		Unique: "new_lookup",
		Text:   "🔄 New lookup",
	}
	btnDismiss = tele.Btn{
		Unique: "dismiss",
		Text:   "✖ Dismiss",
	}
	btnMockToggle = tele.Btn{
		Unique: "mock_toggle",
		Text:   "🧪 Toggle mock mode",
	}
	btnDashboard = tele.Btn{
		Unique: "dashboard",
		Text:   "👤 Dashboard",
	}
	btnClearNotices = tele.Btn{
		Unique: "clear_notices",
		Text:   "🧹 Clear all",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnDashboard),
		menu.Row(btnMockToggle),
	)
	return menu
}

func resultMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnNewLookup))
	return menu
}

func dismissMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnDismiss))
	return menu
}
