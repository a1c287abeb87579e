package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"PassProbeBot/model"
)

// SecretHeader carries the secret_token registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxBodyBytes = 1 << 20

type Dispatcher interface {
	Dispatch(ctx context.Context, u model.Update) error
}

// BotHandler receives webhook deliveries. Apart from configuration errors it
// always answers 200 "OK", otherwise Telegram redelivers the update.
type BotHandler struct {
	dispatcher Dispatcher
	configErr  error
	secret     string
}

// NewBotHandler takes the result of config validation. With a non-nil
// configErr every request is answered 500 and nothing is dispatched.
func NewBotHandler(configErr error, secret string, d Dispatcher) *BotHandler {
	return &BotHandler{dispatcher: d, configErr: configErr, secret: secret}
}

func (h *BotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.configErr != nil {
		slog.Error("rejecting update", "component", "handler", "operation", "serve", "error", h.configErr)
		http.Error(w, fmt.Sprintf("Error: %v", h.configErr), http.StatusInternalServerError)
		return
	}
	defer ok(w)

	if r.Method != http.MethodPost {
		return
	}

	log := slog.With("component", "handler", "request_id", uuid.NewString())

	if h.secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(h.secret)) != 1 {
		log.Warn("dropping update with bad secret token", "operation", "authenticate", "remote", r.RemoteAddr)
		return
	}

	var u model.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&u); err != nil {
		log.Warn("malformed update", "operation", "decode", "error", err)
		return
	}
	log.Debug("received update", "operation", "decode", "update_id", u.UpdateID)

	if err := h.dispatch(r.Context(), u); err != nil {
		log.Error("dispatch failed", "operation", "dispatch", "update_id", u.UpdateID, "error", err)
	}
}

func (h *BotHandler) dispatch(ctx context.Context, u model.Update) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return h.dispatcher.Dispatch(ctx, u)
}

func ok(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
