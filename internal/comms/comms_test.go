package comms

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

var start = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

// openComms returns a module whose clock advances a minute per message.
func openComms(t *testing.T, path string) *Module {
	t.Helper()
	m, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	tick := start
	m.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return m
}

type holders []*model.Ticket

func (h holders) FindByConcert(id model.ConcertID) []*model.Ticket {
	var out []*model.Ticket
	for _, t := range h {
		if t.ConcertID == id {
			out = append(out, t)
		}
	}
	return out
}

func chat(from, to model.AttendeeID, text string) *model.CommunicationLog {
	return &model.CommunicationLog{
		SenderID:     from,
		RecipientIDs: []model.AttendeeID{to},
		Channel:      model.ChannelChat,
		Message:      text,
	}
}

func TestModule_Send(t *testing.T) {
	m := openComms(t, filepath.Join(t.TempDir(), FileName))

	l := &model.CommunicationLog{
		SenderID:     1,
		RecipientIDs: []model.AttendeeID{2, 3, 2},
		Channel:      model.ChannelEmail,
		Subject:      " Doors ",
		Message:      "Doors open at 7pm",
	}
	id, err := m.Send(l)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if id != 1 || l.Subject != "Doors" || !l.SentAt.Equal(start.Add(time.Minute)) {
		t.Errorf("sent = %+v", l)
	}
	if want := []model.AttendeeID{2, 3}; !reflect.DeepEqual(l.RecipientIDs, want) {
		t.Errorf("RecipientIDs = %v, want %v", l.RecipientIDs, want)
	}

	tests := []struct {
		name string
		log  model.CommunicationLog
	}{
		{"empty message", model.CommunicationLog{RecipientIDs: []model.AttendeeID{1}, Message: "  "}},
		{"no recipients", model.CommunicationLog{Message: "hi"}},
		{"unknown channel", model.CommunicationLog{RecipientIDs: []model.AttendeeID{1}, Message: "hi", Channel: model.Channel(9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Send(&tt.log); !errors.Is(err, ErrInvalid) {
				t.Errorf("Send() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestModule_Broadcast(t *testing.T) {
	m := openComms(t, filepath.Join(t.TempDir(), FileName))

	tickets := holders{
		{ConcertID: 1, AttendeeID: 10, Status: model.TicketSold},
		{ConcertID: 1, AttendeeID: 10, Status: model.TicketSold},
		{ConcertID: 1, AttendeeID: 11, Status: model.TicketCheckedIn},
		{ConcertID: 1, AttendeeID: 12, Status: model.TicketCancelled},
		{ConcertID: 2, AttendeeID: 13, Status: model.TicketSold},
	}

	l, err := m.Broadcast(tickets, 1, 99, "Postponed", "The show moves to Friday")
	if err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	if want := []model.AttendeeID{10, 11}; !reflect.DeepEqual(l.RecipientIDs, want) {
		t.Errorf("RecipientIDs = %v, want %v", l.RecipientIDs, want)
	}
	if l.Channel != model.ChannelNotification || l.ConcertID != 1 {
		t.Errorf("broadcast = %+v", l)
	}
	if got := m.FindByConcert(1); len(got) != 1 {
		t.Errorf("FindByConcert(1) = %d entries, want 1", len(got))
	}

	if _, err := m.Broadcast(tickets, 3, 99, "x", "y"); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("Broadcast() to empty concert error = %v, want ErrNoRecipients", err)
	}
}

func TestModule_InboxConversation(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := openComms(t, path)

	for _, l := range []*model.CommunicationLog{
		chat(1, 2, "hi"),
		chat(2, 1, "hello"),
		chat(1, 3, "psst"),
		{SenderID: 1, RecipientIDs: []model.AttendeeID{2}, Channel: model.ChannelEmail, Message: "newsletter"},
		chat(1, 2, "see you there"),
	} {
		if _, err := m.Send(l); err != nil {
			t.Fatal(err)
		}
	}

	var texts []string
	for _, l := range m.Conversation(2, 1) {
		texts = append(texts, l.Message)
	}
	if want := []string{"hi", "hello", "see you there"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("Conversation() = %v, want %v", texts, want)
	}

	inbox := m.Inbox(2)
	if len(inbox) != 3 || inbox[0].Message != "see you there" {
		t.Errorf("Inbox(2) = %+v, want 3 messages newest first", inbox)
	}
	if n := m.Unread(2); n != 3 {
		t.Errorf("Unread(2) = %d, want 3", n)
	}
	if err := m.MarkRead(inbox[0].ID, 2); err != nil {
		t.Fatal(err)
	}
	if n := m.Unread(2); n != 2 {
		t.Errorf("Unread(2) after MarkRead() = %d, want 2", n)
	}

	if removed, err := m.Delete(3); err != nil || !removed {
		t.Fatalf("Delete() = %v, %v", removed, err)
	}
	fresh := openComms(t, path)
	if !reflect.DeepEqual(fresh.All(), m.All()) {
		t.Errorf("reopened log = %+v, want %+v", fresh.All(), m.All())
	}
}

func TestModule_MarkReadPerRecipient(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := openComms(t, path)

	tickets := holders{
		{ConcertID: 1, AttendeeID: 10, Status: model.TicketSold},
		{ConcertID: 1, AttendeeID: 20, Status: model.TicketSold},
	}
	l, err := m.Broadcast(tickets, 1, 99, "Doors", "Doors open at 7pm")
	if err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	for _, msg := range m.Inbox(10) {
		if err := m.MarkRead(msg.ID, 10); err != nil {
			t.Fatalf("MarkRead() error = %v", err)
		}
	}
	if n := m.Unread(10); n != 0 {
		t.Errorf("Unread(10) = %d, want 0", n)
	}
	if n := m.Unread(20); n != 1 {
		t.Errorf("Unread(20) = %d, want 1; attendee 20 never opened the broadcast", n)
	}

	// Marking twice keeps a single entry.
	if err := m.MarkRead(l.ID, 10); err != nil {
		t.Fatal(err)
	}
	if err := m.MarkRead(l.ID, 30); !errors.Is(err, ErrInvalid) {
		t.Errorf("MarkRead() by non-recipient error = %v, want ErrInvalid", err)
	}

	got, err := openComms(t, path).Get(l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := []model.AttendeeID{10}; !reflect.DeepEqual(got.ReadBy, want) {
		t.Errorf("reopened ReadBy = %v, want %v", got.ReadBy, want)
	}
	if !got.ReadByRecipient(10) || got.ReadByRecipient(20) {
		t.Errorf("ReadByRecipient() = %v/%v, want true/false", got.ReadByRecipient(10), got.ReadByRecipient(20))
	}
}

func TestModule_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := openComms(t, path)

	logs := []*model.CommunicationLog{
		{ConcertID: 1, SenderID: 1, RecipientIDs: []model.AttendeeID{2, 3}, Channel: model.ChannelEmail, Subject: "Lineup", Message: "Low Tide joins the bill"},
		{ConcertID: 2, SenderID: 1, RecipientIDs: []model.AttendeeID{4}, Channel: model.ChannelSMS, Message: "Gates at 6"},
		{SenderID: 2, RecipientIDs: []model.AttendeeID{3}, Channel: model.ChannelChat, Message: "Meet at the bar?"},
		{ConcertID: 1, SenderID: 1, RecipientIDs: []model.AttendeeID{2}, Channel: model.ChannelNotification, Subject: "Reminder", Message: "Tomorrow!"},
	}
	for _, l := range logs {
		if _, err := m.Send(l); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.MarkRead(1, 3); err != nil {
		t.Fatal(err)
	}

	fresh := openComms(t, path)
	tests := []struct {
		name string
		id   model.CommunicationID
	}{
		{"email with subject", 1},
		{"sms", 2},
		{"chat without concert", 3},
		{"notification", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := m.Get(tt.id)
			if err != nil {
				t.Fatal(err)
			}
			got, err := fresh.Get(tt.id)
			if err != nil {
				t.Fatalf("Get() after reopen error = %v", err)
			}
			if got.ConcertID != want.ConcertID || got.SenderID != want.SenderID ||
				got.Channel != want.Channel || got.Subject != want.Subject || got.Message != want.Message {
				t.Errorf("reopened = %+v, want %+v", got, want)
			}
			if !reflect.DeepEqual(got.RecipientIDs, want.RecipientIDs) || !reflect.DeepEqual(got.ReadBy, want.ReadBy) {
				t.Errorf("recipients/read = %v/%v, want %v/%v", got.RecipientIDs, got.ReadBy, want.RecipientIDs, want.ReadBy)
			}
			if !got.SentAt.Equal(want.SentAt) {
				t.Errorf("SentAt = %v, want %v", got.SentAt, want.SentAt)
			}
		})
	}
}

func TestModule_OpenVersion1(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := binfmt.WriteHeader(f, binfmt.Header{Kind: "communication", SchemaVersion: 1, Count: 2}); err != nil {
		t.Fatal(err)
	}
	for _, r := range []struct {
		id   int
		read bool
	}{{1, true}, {2, false}} {
		enc := binfmt.NewEncoder()
		enc.Int(r.id)
		enc.Int(1)
		enc.Int(9)
		binfmt.Ints(enc, []model.AttendeeID{10, 20})
		enc.Enum(int(model.ChannelNotification))
		enc.String("")
		enc.String("Rain check")
		enc.Time(start)
		enc.Bool(r.read)
		if err := binfmt.WriteRecord(f, enc.Bytes()); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	m := openComms(t, path)
	read, err := m.Get(1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if want := []model.AttendeeID{10, 20}; !reflect.DeepEqual(read.ReadBy, want) {
		t.Errorf("v1 read message ReadBy = %v, want %v", read.ReadBy, want)
	}
	if n := m.Unread(20); n != 1 {
		t.Errorf("Unread(20) = %d, want 1", n)
	}
}
