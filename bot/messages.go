package bot

import (
	"fmt"
	"html"

	"PassProbeBot/model"
	"PassProbeBot/probe"
)

const (
	CommandStart = "/start"
	CommandCheck = "/check"
)

// Callback payloads carried by the inline buttons.
const (
	CallbackGenPass     = "gen_pass"
	CallbackGoStart     = "go_start"
	CallbackAdminMenu   = "admin_menu"
	CallbackCheckGoogle = "check_google"
)

const (
	welcomeText = "👋 Hi! I can generate strong passwords for you.\nChoose an action below:"
	adminText   = "⚙️ Admin panel\nChoose an action:"
	checkUsage  = "Usage: /check <site>\nExample: /check google.com"
	checkingAck = "Checking…"
)

func MainMenu(caller Caller) model.Keyboard {
	kb := model.Keyboard{
		{model.CallbackButton("🔐 Generate password", CallbackGenPass)},
	}
	if caller == Admin {
		kb = append(kb, []model.Button{model.CallbackButton("⚙️ Settings", CallbackAdminMenu)})
	}
	return kb
}

func PasswordKeyboard(caller Caller) model.Keyboard {
	kb := model.Keyboard{
		{model.CallbackButton("🔄 Generate again", CallbackGenPass)},
	}
	if caller == Admin {
		kb = append(kb, []model.Button{model.CallbackButton("⬅️ Back to menu", CallbackGoStart)})
	}
	return kb
}

func AdminKeyboard() model.Keyboard {
	return model.Keyboard{
		{model.CallbackButton("🌐 Check Google", CallbackCheckGoogle)},
		{model.CallbackButton("⬅️ Back", CallbackGoStart)},
	}
}

// FormatPassword renders a password for HTML parse mode.
func FormatPassword(pw string) string {
	return "🔐 Your new password:\n\n<code>" + html.EscapeString(pw) + "</code>"
}

// FormatProbe renders a probe result for HTML parse mode: ✅ for 200, ⚠️ for
// any other status and ❌ when no response arrived.
func FormatProbe(res probe.Result) string {
	u := html.EscapeString(res.URL)
	if res.Err != nil {
		return fmt.Sprintf("❌ <b>%s</b> is unreachable\nError: %s", u, html.EscapeString(res.Err.Error()))
	}
	icon := "✅"
	if !res.OK {
		icon = "⚠️"
	}
	return fmt.Sprintf("%s <b>%s</b>\nStatus: %d\nResponse time: %dms", icon, u, res.StatusCode, res.ElapsedMs())
}

// probeKeyboard links to the probed site. Unreachable targets get no button,
// since the Bot API rejects the whole message when a button URL is invalid.
func probeKeyboard(res probe.Result) model.Keyboard {
	if res.Err != nil {
		return nil
	}
	return model.Keyboard{{model.URLButton("🔗 Open site", res.URL)}}
}
