package bot

import (
	"context"
	"fmt"
	"log/slog"

	"PassProbeBot/config"
	"PassProbeBot/model"
	"PassProbeBot/password"
	"PassProbeBot/probe"
)

// Caller is the privilege level of whoever sent an update.
type Caller int

const (
	User Caller = iota
	Admin
)

func (c Caller) String() string {
	if c == Admin {
		return "admin"
	}
	return "user"
}

// Sender delivers one outbound request. *Client implements it.
type Sender interface {
	Send(ctx context.Context, req model.OutboundRequest) error
}

// Prober checks a site. *probe.Prober implements it.
type Prober interface {
	Probe(ctx context.Context, target string) probe.Result
}

// Dispatcher routes updates to replies. It holds no mutable state and may be
// shared between concurrent deliveries.
type Dispatcher struct {
	sender         Sender
	prober         Prober
	admin          model.ID
	ackPolicy      config.AckPolicy
	passwordLength int
	probeTarget    string
	generate       func(int) string
}

// NewDispatcher expects cfg to have passed Validate.
func NewDispatcher(cfg *config.Config, sender Sender, prober Prober) *Dispatcher {
	return &Dispatcher{
		sender:         sender,
		prober:         prober,
		admin:          cfg.Admin(),
		ackPolicy:      cfg.AckPolicy,
		passwordLength: cfg.PasswordLength,
		probeTarget:    cfg.ProbeTarget,
		generate:       password.Generate,
	}
}

// Identify compares canonical ids, so 42, "42" and "042" all match an admin id of 42.
func (d *Dispatcher) Identify(id model.ID) Caller {
	if id != "" && model.CanonicalID(id.String()) == d.admin {
		return Admin
	}
	return User
}

// Dispatch identifies the sender of u and routes it.
func (d *Dispatcher) Dispatch(ctx context.Context, u model.Update) error {
	return d.Route(ctx, u, d.Identify(u.SenderID()))
}

// Route issues the replies for u one after another. The first failed request
// stops the chain; earlier requests are not undone.
func (d *Dispatcher) Route(ctx context.Context, u model.Update, caller Caller) error {
	var err error
	switch {
	case u.CallbackQuery != nil:
		err = d.handleCallback(ctx, u.CallbackQuery, caller)
	case u.Message != nil:
		err = d.handleMessage(ctx, u.Message, caller)
	}
	if err != nil {
		return fmt.Errorf("bot: dispatch update %d: %w", u.UpdateID, err)
	}
	return nil
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *model.Message, caller Caller) error {
	if msg.Text == "" {
		return nil
	}
	chatID := msg.Chat.ID

	command, arg := ParseCommand(msg.Text)
	switch command {
	case CommandStart:
		// "/start" only as the whole message; "/start foo" is echoed.
		if arg != "" {
			break
		}
		return d.send(ctx, model.OutboundRequest{
			Method:   model.MethodSendMessage,
			ChatID:   chatID,
			Text:     welcomeText,
			Keyboard: MainMenu(caller),
		})

	case CommandCheck:
		if caller != Admin {
			slog.Debug("ignoring privileged command", "component", "bot", "operation", "check", "chat_id", chatID)
			return nil
		}
		if arg == "" {
			return d.send(ctx, model.OutboundRequest{
				Method: model.MethodSendMessage,
				ChatID: chatID,
				Text:   checkUsage,
			})
		}
		return d.probeAndReport(ctx, chatID, arg)
	}

	return d.send(ctx, model.OutboundRequest{
		Method: model.MethodSendMessage,
		ChatID: chatID,
		Text:   "You wrote: " + msg.Text,
	})
}

func (d *Dispatcher) handleCallback(ctx context.Context, q *model.CallbackQuery, caller Caller) error {
	switch q.Data {
	case CallbackGenPass:
		pw := d.generate(d.passwordLength)
		if err := d.edit(ctx, q, FormatPassword(pw), model.ParseModeHTML, PasswordKeyboard(caller)); err != nil {
			return err
		}
		return d.ackAfterReply(ctx, q)

	case CallbackGoStart:
		if err := d.edit(ctx, q, welcomeText, "", MainMenu(caller)); err != nil {
			return err
		}
		return d.ackAfterReply(ctx, q)

	case CallbackAdminMenu:
		if caller != Admin {
			return nil
		}
		if err := d.edit(ctx, q, adminText, "", AdminKeyboard()); err != nil {
			return err
		}
		return d.ackAfterReply(ctx, q)

	case CallbackCheckGoogle:
		if caller != Admin {
			return nil
		}
		if err := d.ack(ctx, q, checkingAck); err != nil {
			return err
		}
		if q.Message == nil {
			return nil
		}
		return d.probeAndReport(ctx, q.Message.Chat.ID, d.probeTarget)
	}

	if q.Message != nil {
		err := d.send(ctx, model.OutboundRequest{
			Method: model.MethodSendMessage,
			ChatID: q.Message.Chat.ID,
			Text:   "You pressed: " + q.Data,
		})
		if err != nil {
			return err
		}
	}
	return d.ackAfterReply(ctx, q)
}

func (d *Dispatcher) probeAndReport(ctx context.Context, chatID int64, target string) error {
	res := d.prober.Probe(ctx, target)
	slog.Info("site probed", "component", "bot", "operation", "probe",
		"url", res.URL, "ok", res.OK, "status", res.StatusCode, "elapsed_ms", res.ElapsedMs())
	return d.send(ctx, model.OutboundRequest{
		Method:    model.MethodSendMessage,
		ChatID:    chatID,
		Text:      FormatProbe(res),
		ParseMode: model.ParseModeHTML,
		Keyboard:  probeKeyboard(res),
	})
}

// edit rewrites the message the pressed button belongs to. Inline-mode
// callbacks carry no message and are left alone.
func (d *Dispatcher) edit(ctx context.Context, q *model.CallbackQuery, text, parseMode string, kb model.Keyboard) error {
	if q.Message == nil {
		return nil
	}
	err := d.send(ctx, model.OutboundRequest{
		Method:    model.MethodEditMessageText,
		ChatID:    q.Message.Chat.ID,
		MessageID: q.Message.MessageID,
		Text:      text,
		ParseMode: parseMode,
		Keyboard:  kb,
	})
	if IsNotModified(err) {
		return nil
	}
	return err
}

func (d *Dispatcher) ackAfterReply(ctx context.Context, q *model.CallbackQuery) error {
	if d.ackPolicy != config.AckAlways {
		return nil
	}
	return d.ack(ctx, q, "")
}

func (d *Dispatcher) ack(ctx context.Context, q *model.CallbackQuery, text string) error {
	return d.send(ctx, model.OutboundRequest{
		Method:          model.MethodAnswerCallbackQuery,
		CallbackQueryID: q.ID,
		Text:            text,
	})
}

func (d *Dispatcher) send(ctx context.Context, req model.OutboundRequest) error {
	return d.sender.Send(ctx, req)
}
