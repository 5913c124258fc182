package telegram

import "testing"

func TestRouteCoversAllCommands(t *testing.T) {
	b := &Bot{}

	commands := []string{
		"/start",
		"/add",
		"/show",
		"/delete",
		"/set_budget",
		"/delete_budget",
		"/show_budgets",
		"/analysis",
		"/help",
	}
	for _, command := range commands {
		if b.route(command) == nil {
			t.Fatalf("%s is not routed", command)
		}
	}

	for _, command := range []string{"/bogus", "hello", ""} {
		if b.route(command) != nil {
			t.Fatalf("%q unexpectedly routed", command)
		}
	}
}

// group chats address commands as /command@botname
func TestRouteWithBotNameSuffix(t *testing.T) {
	b := &Bot{}

	for _, text := range []string{"/start@finance_bot", "/help@finance_bot", "/add@finance_bot 10 lunch"} {
		command, _ := splitCommand(text)
		if b.route(command) == nil {
			t.Fatalf("%q is not routed", text)
		}
	}
}
