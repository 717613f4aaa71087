package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/scribely/backend/internal/events"
	"github.com/scribely/backend/internal/models"
	"github.com/scribely/backend/internal/repositories"
)

// Dispatcher fans a post-publication event out to everyone who favorited the
// author: it resolves the recipient set, records one notification per
// recipient, and hands each to the Sender. Dispatch is idempotent per
// (recipient, post) pair, so replaying an event after a crash cannot deliver
// twice.
type Dispatcher struct {
	favorites     repositories.FavoriteRepository
	notifications repositories.NotificationRepository
	posts         repositories.PostRepository
	users         repositories.UserRepository
	sender        Sender
	log           zerolog.Logger

	// MaxAttempts and RetryDelay bound per-recipient delivery retries
	MaxAttempts int
	RetryDelay  time.Duration

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(
	favorites repositories.FavoriteRepository,
	notifications repositories.NotificationRepository,
	posts repositories.PostRepository,
	users repositories.UserRepository,
	sender Sender,
	log zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		favorites:     favorites,
		notifications: notifications,
		posts:         posts,
		users:         users,
		sender:        sender,
		log:           log,
		MaxAttempts:   3,
		RetryDelay:    100 * time.Millisecond,
	}
}

// Run consumes the bus until it is closed or the context is cancelled. Events
// for different authors carry no ordering relation, so each one is dispatched
// on its own goroutine.
func (d *Dispatcher) Run(ctx context.Context, bus *events.Bus) {
	for {
		select {
		case <-ctx.Done():
			d.wg.Wait()
			return
		case event, ok := <-bus.Events():
			if !ok {
				d.wg.Wait()
				return
			}
			d.wg.Add(1)
			go func(ev events.PostPublished) {
				defer d.wg.Done()
				if err := d.Dispatch(ctx, ev); err != nil {
					d.log.Error().Err(err).
						Str("event_id", ev.EventID).
						Uint("author_id", ev.AuthorID).
						Uint("post_id", ev.PostID).
						Msg("dispatch failed")
				}
			}(event)
		}
	}
}

// Dispatch processes a single publication event to completion. An empty
// recipient set, or a post or author deleted since publication, completes as
// a no-op. One recipient's failure never blocks delivery to the others.
func (d *Dispatcher) Dispatch(ctx context.Context, event events.PostPublished) error {
	recipients, err := d.favorites.ListFavoritersOf(event.AuthorID)
	if err != nil {
		return fmt.Errorf("resolving favoriters of author %d: %w", event.AuthorID, err)
	}
	if len(recipients) == 0 {
		return nil
	}

	post, err := d.posts.GetPostByID(event.PostID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			// Deleted between publication and dispatch; nothing to notify about.
			return nil
		}
		return fmt.Errorf("resolving post %d: %w", event.PostID, err)
	}
	author, err := d.users.GetUserByID(event.AuthorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("resolving author %d: %w", event.AuthorID, err)
	}

	message := fmt.Sprintf("%s published a new post: %s", author.Name, post.Title)

	for _, recipientID := range recipients {
		// Authors never hear about their own posts, even if a corrupt
		// self-favorite row slipped past the store.
		if recipientID == event.AuthorID {
			continue
		}
		d.notifyRecipient(ctx, event, recipientID, message)
	}
	return nil
}

func (d *Dispatcher) notifyRecipient(ctx context.Context, event events.PostPublished, recipientID uint, message string) {
	notification := &models.Notification{
		RecipientID: recipientID,
		PostID:      event.PostID,
		ActorID:     event.AuthorID,
		Message:     message,
	}
	inserted, err := d.notifications.Record(notification)
	if err != nil {
		d.log.Error().Err(err).
			Str("event_id", event.EventID).
			Uint("recipient_id", recipientID).
			Uint("post_id", event.PostID).
			Msg("recording notification failed")
		return
	}
	if !inserted {
		// Already delivered by an earlier dispatch of this event.
		return
	}

	if err := d.deliver(ctx, recipientID, event.PostID); err != nil {
		d.log.Error().Err(err).
			Str("event_id", event.EventID).
			Uint("recipient_id", recipientID).
			Uint("post_id", event.PostID).
			Int("attempts", d.MaxAttempts).
			Msg("notification delivery failed")
	}
}

func (d *Dispatcher) deliver(ctx context.Context, recipientID, postID uint) error {
	var err error
	for attempt := 1; attempt <= d.MaxAttempts; attempt++ {
		err = d.sender.Deliver(ctx, recipientID, postID)
		if err == nil {
			return nil
		}
		if attempt == d.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.RetryDelay):
		}
	}
	return err
}

// Wait blocks until every in-flight dispatch has completed. Used by shutdown
// paths and tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
