package bdd

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Paths:  []string{"./featureFiles"},
			Format: "pretty",
			Output: os.Stdout,
		},
	}

	if suite.Run() != 0 {
		t.Fail()
	}
}

// InitializeScenario binds Gherkin steps to the in-memory chat model
func InitializeScenario(s *godog.ScenarioContext) {
	s.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		world = newChatWorld()
		return ctx, nil
	})

	s.Step(`^user "([^"]*)" and user "([^"]*)" are registered$`, usersAreRegistered)
	s.Step(`^"([^"]*)" invites "([^"]*)"$`, userInvites)
	s.Step(`^"([^"]*)" accepts the invite from "([^"]*)"$`, userAcceptsInvite)
	s.Step(`^"([^"]*)" rejects the invite from "([^"]*)"$`, userRejectsInvite)
	s.Step(`^"([^"]*)" sends "([^"]*)" to "([^"]*)"$`, userSendsMessage)
	s.Step(`^the message is rejected$`, messageIsRejected)
	s.Step(`^"([^"]*)" has (\d+) unread messages? from "([^"]*)"$`, userHasUnread)
	s.Step(`^"([^"]*)" reads the conversation with "([^"]*)"$`, userReadsConversation)
	s.Step(`^the last message from "([^"]*)" to "([^"]*)" is "([^"]*)"$`, lastMessageDelivery)
}

type chatMessage struct {
	sender string
	text   string
	seenBy map[string]bool
}

// chatWorld in-memory projection of the invite and message rules
type chatWorld struct {
	users        map[string]bool
	inviteStatus map[string]string // "from:to" -> pending/accepted/rejected
	messages     map[string][]*chatMessage
	lastErr      error
}

var world *chatWorld

func newChatWorld() *chatWorld {
	return &chatWorld{
		users:        map[string]bool{},
		inviteStatus: map[string]string{},
		messages:     map[string][]*chatMessage{},
	}
}

func pairKey(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}

func usersAreRegistered(a, b string) error {
	world.users[a] = true
	world.users[b] = true
	return nil
}

func userInvites(from, to string) error {
	key := pairKey(from, to)
	if world.inviteStatus[key] == "pending" || world.inviteStatus[key] == "accepted" {
		return fmt.Errorf("invite between %s and %s already exists", from, to)
	}
	world.inviteStatus[key] = "pending"
	return nil
}

func userAcceptsInvite(to, from string) error {
	key := pairKey(from, to)
	if world.inviteStatus[key] != "pending" {
		return fmt.Errorf("no pending invite from %s to %s", from, to)
	}
	world.inviteStatus[key] = "accepted"
	return nil
}

func userRejectsInvite(to, from string) error {
	key := pairKey(from, to)
	if world.inviteStatus[key] != "pending" {
		return fmt.Errorf("no pending invite from %s to %s", from, to)
	}
	world.inviteStatus[key] = "rejected"
	return nil
}

func userSendsMessage(from, text, to string) error {
	key := pairKey(from, to)
	if world.inviteStatus[key] != "accepted" {
		world.lastErr = fmt.Errorf("%s and %s are not contacts", from, to)
		return nil
	}
	world.lastErr = nil
	world.messages[key] = append(world.messages[key], &chatMessage{
		sender: from,
		text:   text,
		seenBy: map[string]bool{},
	})
	return nil
}

func messageIsRejected() error {
	if world.lastErr == nil {
		return fmt.Errorf("expected the message to be rejected")
	}
	return nil
}

func userHasUnread(user string, count int, peer string) error {
	key := pairKey(user, peer)
	unread := 0
	for _, msg := range world.messages[key] {
		if msg.sender != user && !msg.seenBy[user] {
			unread++
		}
	}
	if unread != count {
		return fmt.Errorf("expected %d unread, got %d", count, unread)
	}
	return nil
}

func userReadsConversation(user, peer string) error {
	key := pairKey(user, peer)
	for _, msg := range world.messages[key] {
		if msg.sender != user {
			msg.seenBy[user] = true
		}
	}
	return nil
}

func lastMessageDelivery(from, to, expected string) error {
	key := pairKey(from, to)
	msgs := world.messages[key]
	if len(msgs) == 0 {
		return fmt.Errorf("no messages between %s and %s", from, to)
	}
	last := msgs[len(msgs)-1]

	state := "Sent"
	if last.seenBy[to] {
		state = "Seen"
	} else if len(last.seenBy) > 0 {
		state = "Delivered"
	}
	if state != expected {
		return fmt.Errorf("expected delivery %s, got %s", expected, state)
	}
	return nil
}
