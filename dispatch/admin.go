package dispatch

import (
	"context"

	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/pkg/errors"
)

// Admin moderation toggles. Each reads the server-confirmed current value
// and writes its negation; the flipped flag becomes visible through the
// users subscription.

func (d *Dispatcher) ToggleAdmin(ctx context.Context, userId string) error {
	return d.toggleFlag(ctx, userId, "isAdmin")
}

func (d *Dispatcher) ToggleBlock(ctx context.Context, userId string) error {
	return d.toggleFlag(ctx, userId, "isBlocked")
}

func (d *Dispatcher) ToggleMute(ctx context.Context, userId string) error {
	return d.toggleFlag(ctx, userId, "isMuted")
}

func (d *Dispatcher) toggleFlag(ctx context.Context, userId string, field string) error {
	doc, err := d.docs.Get(ctx, store.CollectionUsers, userId)
	if err != nil {
		return errors.Wrap(err, "read user "+userId)
	}
	var flags map[string]interface{}
	if err := doc.Decode(&flags); err != nil {
		return err
	}
	current, _ := flags[field].(bool)

	err = d.docs.Update(ctx, store.CollectionUsers, userId, map[string]interface{}{
		field: !current,
	})
	return errors.Wrap(err, "toggle "+field+" for "+userId)
}

// AwardPoints adds delta to the user's point balance, clamping the result
// at zero. Negative deltas are allowed for penalties.
func (d *Dispatcher) AwardPoints(ctx context.Context, userId string, delta int) error {
	doc, err := d.docs.Get(ctx, store.CollectionUsers, userId)
	if err != nil {
		return errors.Wrap(err, "read user "+userId)
	}
	var user struct {
		Points int `json:"points"`
	}
	if err := doc.Decode(&user); err != nil {
		return err
	}
	return d.writePoints(ctx, userId, user.Points+delta)
}

// SetPoints writes an absolute point balance, clamped at zero.
func (d *Dispatcher) SetPoints(ctx context.Context, userId string, points int) error {
	return d.writePoints(ctx, userId, points)
}

func (d *Dispatcher) writePoints(ctx context.Context, userId string, points int) error {
	if points < 0 {
		points = 0
	}
	err := d.docs.Update(ctx, store.CollectionUsers, userId, map[string]interface{}{
		"points": points,
	})
	return errors.Wrap(err, "write points for "+userId)
}

// UpdatePromoText saves the announcement banner in the app configuration
// document, creating it on first use.
func (d *Dispatcher) UpdatePromoText(ctx context.Context, text string) error {
	err := d.docs.Set(ctx, store.CollectionSettings, store.AppConfigDocId, map[string]interface{}{
		"promoBannerText": text,
	})
	return errors.Wrap(err, "update promo text")
}
