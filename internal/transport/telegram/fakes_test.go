package telegram

import (
	"context"
	"strings"
	"sync"

	"github.com/KotFed0t/market_insight_bot/data/session"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/service/marketService"
	tele "gopkg.in/telebot.v4"
)

const testChatID int64 = 42

type fakeBot struct {
	tele.API
	sent    []any
	edits   []any
	deleted int
	lastID  int
}

func (b *fakeBot) Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error) {
	b.lastID++
	b.sent = append(b.sent, what)
	return &tele.Message{ID: b.lastID, Chat: &tele.Chat{ID: testChatID}}, nil
}

func (b *fakeBot) Edit(msg tele.Editable, what any, opts ...any) (*tele.Message, error) {
	b.edits = append(b.edits, what)
	return &tele.Message{Chat: &tele.Chat{ID: testChatID}}, nil
}

func (b *fakeBot) Delete(msg tele.Editable) error {
	b.deleted++
	return nil
}

func (b *fakeBot) lastEdit() string {
	if len(b.edits) == 0 {
		return ""
	}
	text, _ := b.edits[len(b.edits)-1].(string)
	return text
}

// fakeContext отвечает только на то, что трогают хендлеры.
type fakeContext struct {
	tele.Context
	bot      *fakeBot
	chat     *tele.Chat
	msg      *tele.Message
	callback *tele.Callback
	store    map[string]any

	sent      []any
	edits     []any
	editOpts  [][]any
	albums    []tele.Album
	responded int
}

func newMessageContext(text, payload string) *fakeContext {
	chat := &tele.Chat{ID: testChatID}
	return &fakeContext{
		bot:   &fakeBot{},
		chat:  chat,
		msg:   &tele.Message{ID: 1, Chat: chat, Text: text, Payload: payload},
		store: map[string]any{},
	}
}

func newCallbackContext(data string) *fakeContext {
	c := newMessageContext("", "")
	c.callback = &tele.Callback{ID: "cb", Message: c.msg, Data: data}
	return c
}

func (c *fakeContext) Bot() tele.API             { return c.bot }
func (c *fakeContext) Chat() *tele.Chat          { return c.chat }
func (c *fakeContext) Recipient() tele.Recipient { return c.chat }
func (c *fakeContext) Message() *tele.Message    { return c.msg }
func (c *fakeContext) Callback() *tele.Callback  { return c.callback }

func (c *fakeContext) Data() string {
	if c.callback != nil {
		return c.callback.Data
	}
	return c.msg.Payload
}

func (c *fakeContext) Args() []string {
	if c.callback != nil {
		return strings.Split(c.callback.Data, "|")
	}
	return strings.Fields(c.msg.Payload)
}

func (c *fakeContext) Get(key string) any      { return c.store[key] }
func (c *fakeContext) Set(key string, val any) { c.store[key] = val }

func (c *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	c.responded++
	return nil
}

func (c *fakeContext) Send(what any, opts ...any) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *fakeContext) Edit(what any, opts ...any) error {
	c.edits = append(c.edits, what)
	c.editOpts = append(c.editOpts, opts)
	return nil
}

func (c *fakeContext) SendAlbum(a tele.Album, opts ...any) error {
	c.albums = append(c.albums, a)
	return nil
}

type fakeSession struct {
	mu       sync.Mutex
	sessions map[int64]model.Session
	seqs     map[string]int64
}

func newFakeSession() *fakeSession {
	return &fakeSession{sessions: map[int64]model.Session{}, seqs: map[string]int64{}}
}

func (s *fakeSession) GetSession(ctx context.Context, chatID int64) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chatSession, ok := s.sessions[chatID]
	if !ok {
		return model.Session{}, session.ErrNotFound
	}
	return chatSession, nil
}

func (s *fakeSession) SetSession(ctx context.Context, chatID int64, chatSession model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = chatSession
	return nil
}

func (s *fakeSession) NextSeq(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[key]++
	return s.seqs[key], nil
}

func (s *fakeSession) LatestSeq(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seqs[key], nil
}

type convertCall struct {
	from, to, amount string
}

type fakeMarketService struct {
	settings model.Settings

	popular    []model.PopularStock
	popularErr error

	view        model.StockView
	viewErr     error
	onStockView func(ctx context.Context)

	remembered  []string
	rememberErr error

	predictCalls []string
	converts     []convertCall
}

func (f *fakeMarketService) RegUser(ctx context.Context, chatID int64) error { return nil }

func (f *fakeMarketService) GetSettings(ctx context.Context, chatID int64) (model.Settings, error) {
	return f.settings, nil
}

func (f *fakeMarketService) SaveSettings(ctx context.Context, chatID int64, settings model.Settings) error {
	f.settings = settings
	return nil
}

func (f *fakeMarketService) RememberSymbol(ctx context.Context, chatID int64, symbol string) error {
	if f.rememberErr != nil {
		return f.rememberErr
	}
	f.remembered = append(f.remembered, symbol)
	return nil
}

func (f *fakeMarketService) GetRecentSymbols(ctx context.Context, chatID int64) ([]string, error) {
	return f.remembered, nil
}

func (f *fakeMarketService) GetPopularStocks(ctx context.Context, refresh bool) ([]model.PopularStock, error) {
	return f.popular, f.popularErr
}

func (f *fakeMarketService) GetStockView(ctx context.Context, symbol string) (model.StockView, error) {
	if f.onStockView != nil {
		f.onStockView(ctx)
	}
	if f.viewErr != nil {
		return model.StockView{}, f.viewErr
	}
	view := f.view
	view.Snapshot.Symbol = strings.ToUpper(symbol)
	return view, nil
}

func (f *fakeMarketService) GetPrediction(ctx context.Context, algorithm model.Algorithm, symbol string) (model.Prediction, error) {
	f.predictCalls = append(f.predictCalls, string(algorithm)+"|"+symbol)
	return model.Prediction{Algorithm: algorithm, Symbol: symbol}, nil
}

func (f *fakeMarketService) GetCryptoMarkets(ctx context.Context, vsCurrency string, refresh bool) ([]model.CoinRow, error) {
	return nil, nil
}

func (f *fakeMarketService) Convert(ctx context.Context, from, to, amount string) (model.Conversion, error) {
	f.converts = append(f.converts, convertCall{from: from, to: to, amount: amount})
	return model.Conversion{From: from, To: to, Amount: amount}, nil
}

func (f *fakeMarketService) ExportStockReport(ctx context.Context, symbol string) (marketService.Report, error) {
	return marketService.Report{}, nil
}
