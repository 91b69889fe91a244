package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alextreichler/storefront/internal/models"
)

// ErrEmptyMessage is returned when a dialog would be opened without any text.
var ErrEmptyMessage = errors.New("message text is empty")

const (
	GuestTopic   = "Contact form"
	DefaultTopic = "Question"
)

// CreateGuestDialog records a contact-form submission. When the visitor is
// logged in, username is attached and the dialog shows up in their inbox.
func (s *Store) CreateGuestDialog(ctx context.Context, username, name, email, text string) (models.Dialog, error) {
	originator := models.Originator{
		Role:  "guest",
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	author := models.AuthorCustomer
	if username != "" {
		originator.Username = username
		originator.Role = "customer"
		author = username
	}
	return s.createDialog(ctx, GuestTopic, originator, author, text)
}

// CreateCustomerDialog opens a new dialog for a logged-in customer.
func (s *Store) CreateCustomerDialog(ctx context.Context, username, topic, text string) (models.Dialog, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}
	originator := models.Originator{Username: username, Role: "customer"}
	return s.createDialog(ctx, topic, originator, username, text)
}

func (s *Store) createDialog(ctx context.Context, topic string, originator models.Originator, author, text string) (models.Dialog, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Dialog{}, ErrEmptyMessage
	}

	now := s.timestamp()
	dialog := models.Dialog{
		Topic:      topic,
		Status:     models.DialogOpen,
		CreatedAt:  now,
		Originator: originator,
		Messages:   []models.DialogMessage{{Author: author, Text: text, Date: now}},
	}

	err := s.dialogs.Update(ctx, func(dialogs []models.Dialog) ([]models.Dialog, bool, error) {
		id, err := s.seq.Next(ctx, MessagesDoc, maxDialogID(dialogs))
		if err != nil {
			return nil, false, err
		}
		dialog.ID = id
		return append(dialogs, dialog), true, nil
	})
	if err != nil {
		return models.Dialog{}, fmt.Errorf("create dialog: %w", err)
	}
	return dialog, nil
}

func maxDialogID(dialogs []models.Dialog) int {
	highest := 0
	for _, d := range dialogs {
		highest = max(highest, d.ID)
	}
	return highest
}

// AppendCustomerMessage adds a message from the dialog's own customer.
// Missing, closed or foreign dialogs are left untouched without an error.
func (s *Store) AppendCustomerMessage(ctx context.Context, id int, username, text string) (Lookup[models.Dialog], error) {
	return s.appendMessage(ctx, id, username, text, func(d *models.Dialog) bool {
		return username != "" && d.Originator.Username == username
	})
}

// AppendAdminMessage adds a staff reply to any open dialog.
func (s *Store) AppendAdminMessage(ctx context.Context, id int, text string) (Lookup[models.Dialog], error) {
	return s.appendMessage(ctx, id, models.AuthorAdmin, text, func(*models.Dialog) bool { return true })
}

func (s *Store) appendMessage(ctx context.Context, id int, author, text string, allowed func(*models.Dialog) bool) (Lookup[models.Dialog], error) {
	var result Lookup[models.Dialog]
	text = strings.TrimSpace(text)
	if text == "" {
		return result, nil
	}
	err := s.dialogs.Update(ctx, func(dialogs []models.Dialog) ([]models.Dialog, bool, error) {
		for i := range dialogs {
			d := &dialogs[i]
			if d.ID != id {
				continue
			}
			if !d.IsOpen() || !allowed(d) {
				return dialogs, false, nil
			}
			d.Messages = append(d.Messages, models.DialogMessage{Author: author, Text: text, Date: s.timestamp()})
			result = found(*d)
			return dialogs, true, nil
		}
		return dialogs, false, nil
	})
	return result, err
}

// CloseDialog marks the dialog closed. Found is true only when this call closed
// it; an unknown or already closed dialog is left alone.
func (s *Store) CloseDialog(ctx context.Context, id int) (Lookup[models.Dialog], error) {
	var result Lookup[models.Dialog]
	err := s.dialogs.Update(ctx, func(dialogs []models.Dialog) ([]models.Dialog, bool, error) {
		for i := range dialogs {
			if dialogs[i].ID != id {
				continue
			}
			if dialogs[i].Status == models.DialogClosed {
				return dialogs, false, nil
			}
			dialogs[i].Status = models.DialogClosed
			result = found(dialogs[i])
			return dialogs, true, nil
		}
		return dialogs, false, nil
	})
	return result, err
}

func (s *Store) ListDialogs(ctx context.Context) ([]models.Dialog, error) {
	return s.dialogs.Load(ctx)
}

// DialogsForUser returns the dialogs opened by username.
func (s *Store) DialogsForUser(ctx context.Context, username string) ([]models.Dialog, error) {
	if username == "" {
		return nil, nil
	}
	dialogs, err := s.dialogs.Load(ctx)
	if err != nil {
		return nil, err
	}
	var mine []models.Dialog
	for _, d := range dialogs {
		if d.Originator.Username == username {
			mine = append(mine, d)
		}
	}
	return mine, nil
}

func (s *Store) GetDialog(ctx context.Context, id int) (Lookup[models.Dialog], error) {
	dialogs, err := s.dialogs.Load(ctx)
	if err != nil {
		return Lookup[models.Dialog]{}, err
	}
	for _, d := range dialogs {
		if d.ID == id {
			return found(d), nil
		}
	}
	return Lookup[models.Dialog]{}, nil
}
