package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/model/tg/tgCallback"
	"github.com/KotFed0t/market_insight_bot/internal/screen"
	"github.com/KotFed0t/market_insight_bot/internal/service"
	tele "gopkg.in/telebot.v4"
)

func TestAmountSurvivesPairChange(t *testing.T) {
	sessions := newFakeSession()
	svc := &fakeMarketService{settings: model.DefaultSettings()}
	ctrl := NewController(svc, sessions)

	// сумма введена после кнопки "Сумма"
	_ = sessions.SetSession(context.Background(), testChatID, model.Session{Action: model.ExpectingAmount})
	c := newMessageContext("250", "")
	c.Set("session", model.Session{Action: model.ExpectingAmount})
	if err := ctrl.ProcessAmount(c); err != nil {
		t.Fatalf("ProcessAmount: %v", err)
	}

	steps := []struct {
		name       string
		run        func() error
		wantFrom   string
		wantTo     string
		wantAmount string
	}{
		{
			name:     "смена валюты",
			run:      func() error { return ctrl.PickToCurrency(newCallbackContext("RUB")) },
			wantFrom: "EUR", wantTo: "RUB", wantAmount: "250",
		},
		{
			name:     "обмен местами",
			run:      func() error { return ctrl.SwapCurrencies(newCallbackContext("")) },
			wantFrom: "RUB", wantTo: "EUR", wantAmount: "250",
		},
		{
			name:     "/convert без суммы",
			run:      func() error { return ctrl.Convert(newMessageContext("/convert", "")) },
			wantFrom: "RUB", wantTo: "EUR", wantAmount: "250",
		},
		{
			name:     "/convert с новой суммой",
			run:      func() error { return ctrl.Convert(newMessageContext("/convert 10", "10")) },
			wantFrom: "RUB", wantTo: "EUR", wantAmount: "10",
		},
		{
			name:     "новая сумма запомнена",
			run:      func() error { return ctrl.PickFromCurrency(newCallbackContext("USD")) },
			wantFrom: "USD", wantTo: "EUR", wantAmount: "10",
		},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if err := step.run(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := svc.converts[len(svc.converts)-1]
			want := convertCall{from: step.wantFrom, to: step.wantTo, amount: step.wantAmount}
			if got != want {
				t.Errorf("Convert called with %+v, want %+v", got, want)
			}
		})
	}

	chatSession, _ := sessions.GetSession(context.Background(), testChatID)
	if chatSession.Action != model.DefaultAction {
		t.Errorf("action = %v, want default", chatSession.Action)
	}
}

func TestShowStockRemembersOnlyShownSymbol(t *testing.T) {
	tests := []struct {
		name           string
		viewErr        error
		rememberErr    error
		overtaken      bool
		wantRemembered []string
		wantDeleted    int
		wantLastEdit   string
	}{
		{name: "карточка показана", wantRemembered: []string{"AAPL"}},
		{name: "ответ устарел", overtaken: true, wantRemembered: nil, wantDeleted: 1},
		{name: "тикер не найден", viewErr: service.ErrNotFound, wantRemembered: nil, wantLastEdit: notFoundMsg},
		{name: "история не записалась", rememberErr: errors.New("db is down"), wantRemembered: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newFakeSession()
			svc := &fakeMarketService{
				settings:    model.DefaultSettings(),
				viewErr:     tt.viewErr,
				rememberErr: tt.rememberErr,
			}
			if tt.overtaken {
				// пока ждали ответ, пользователь запросил другую карточку
				svc.onStockView = func(ctx context.Context) {
					_, _ = sessions.NextSeq(ctx, screen.Key(testChatID, screen.Stock))
				}
			}
			ctrl := NewController(svc, sessions)
			c := newMessageContext("/stock aapl", "aapl")

			if err := ctrl.Stock(c); err != nil {
				t.Fatalf("Stock: %v", err)
			}

			if len(svc.remembered) != len(tt.wantRemembered) {
				t.Fatalf("remembered = %v, want %v", svc.remembered, tt.wantRemembered)
			}
			for i := range tt.wantRemembered {
				if svc.remembered[i] != tt.wantRemembered[i] {
					t.Errorf("remembered = %v, want %v", svc.remembered, tt.wantRemembered)
				}
			}
			if c.bot.deleted != tt.wantDeleted {
				t.Errorf("deleted = %d, want %d", c.bot.deleted, tt.wantDeleted)
			}
			if tt.wantLastEdit != "" && c.bot.lastEdit() != tt.wantLastEdit {
				t.Errorf("last edit = %q, want %q", c.bot.lastEdit(), tt.wantLastEdit)
			}
		})
	}
}

func TestPickAlgorithmOffersPopularSymbols(t *testing.T) {
	tests := []struct {
		name       string
		popular    []model.PopularStock
		popularErr error
		wantData   []string
	}{
		{
			name:     "популярные акции",
			popular:  []model.PopularStock{{Symbol: "AAPL"}, {Symbol: "MSFT"}},
			wantData: []string{"svm|AAPL", "svm|MSFT"},
		},
		{name: "список недоступен", popularErr: errors.New("api is down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newFakeSession()
			svc := &fakeMarketService{popular: tt.popular, popularErr: tt.popularErr}
			ctrl := NewController(svc, sessions)
			c := newCallbackContext(string(model.SVM))

			if err := ctrl.PickAlgorithm(c); err != nil {
				t.Fatalf("PickAlgorithm: %v", err)
			}

			chatSession, _ := sessions.GetSession(context.Background(), testChatID)
			if chatSession.Action != model.ExpectingPredictionTicker || chatSession.Algorithm != model.SVM {
				t.Errorf("session = %+v", chatSession)
			}

			if len(c.editOpts) != 1 {
				t.Fatalf("edits = %d, want 1", len(c.editOpts))
			}
			var data []string
			for _, opt := range c.editOpts[0] {
				markup, ok := opt.(*tele.ReplyMarkup)
				if !ok || markup == nil {
					continue
				}
				for _, row := range markup.InlineKeyboard {
					for _, btn := range row {
						if btn.Unique != tgCallback.PredictSymbol {
							t.Errorf("button unique = %q", btn.Unique)
						}
						data = append(data, btn.Data)
					}
				}
			}
			if len(data) != len(tt.wantData) {
				t.Fatalf("buttons = %v, want %v", data, tt.wantData)
			}
			for i := range data {
				if data[i] != tt.wantData[i] {
					t.Errorf("buttons = %v, want %v", data, tt.wantData)
				}
			}
		})
	}
}

func TestPredictSymbol(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantCalls []string
	}{
		{name: "кнопка тикера", data: "svm|AAPL", wantCalls: []string{"svm|AAPL"}},
		{name: "неизвестный алгоритм", data: "magic|AAPL", wantCalls: nil},
		{name: "нет тикера", data: "svm", wantCalls: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newFakeSession()
			_ = sessions.SetSession(context.Background(), testChatID, model.Session{Action: model.ExpectingPredictionTicker, Algorithm: model.SVM})
			svc := &fakeMarketService{}
			ctrl := NewController(svc, sessions)
			c := newCallbackContext(tt.data)

			if err := ctrl.PredictSymbol(c); err != nil {
				t.Fatalf("PredictSymbol: %v", err)
			}

			if len(svc.predictCalls) != len(tt.wantCalls) {
				t.Fatalf("predictions = %v, want %v", svc.predictCalls, tt.wantCalls)
			}
			if len(tt.wantCalls) == 0 {
				return
			}
			if svc.predictCalls[0] != tt.wantCalls[0] {
				t.Errorf("predictions = %v, want %v", svc.predictCalls, tt.wantCalls)
			}
			chatSession, _ := sessions.GetSession(context.Background(), testChatID)
			if chatSession.Action != model.DefaultAction {
				t.Errorf("action = %v, want default", chatSession.Action)
			}
			if c.bot.deleted != 1 {
				t.Errorf("loading message must be deleted, deleted = %d", c.bot.deleted)
			}
		})
	}
}
