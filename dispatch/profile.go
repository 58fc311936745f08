package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/utils"
	"github.com/pkg/errors"
)

// ToggleFollow symmetrically adds or removes the target id from the
// viewer's following set. The set ops are atomic on the store side, so a
// double toggle always returns to the original state and duplicates are
// impossible. Following yourself is rejected here as well, even though the
// UI never offers it.
func (d *Dispatcher) ToggleFollow(ctx context.Context, viewerId string, targetId string) error {
	if viewerId == targetId {
		return ErrSelfFollow
	}

	doc, err := d.docs.Get(ctx, store.CollectionUsers, viewerId)
	if err != nil {
		return errors.Wrap(err, "read viewer "+viewerId)
	}
	var viewer struct {
		Following []string `json:"following"`
	}
	if err := doc.Decode(&viewer); err != nil {
		return err
	}

	var op interface{} = store.ArrayUnion{Values: []interface{}{targetId}}
	if utils.ContainsString(viewer.Following, targetId) {
		op = store.ArrayRemove{Values: []interface{}{targetId}}
	}

	err = d.docs.Update(ctx, store.CollectionUsers, viewerId, map[string]interface{}{
		"following": op,
	})
	return errors.Wrap(err, "toggle follow "+targetId)
}

// ProfileInput carries the editable profile fields. Empty strings mean
// "leave unchanged". An avatar provided as a data URL is uploaded first and
// stored as its download reference; RemoveAvatar clears it instead.
type ProfileInput struct {
	FullName      string `json:"fullName"`
	Username      string `json:"username"`
	PhoneNumber   string `json:"phoneNumber"`
	Team          string `json:"team"`
	AvatarDataURL string `json:"avatarDataUrl"`
	RemoveAvatar  bool   `json:"removeAvatar"`
}

func (d *Dispatcher) UpdateProfile(ctx context.Context, viewerId string, in ProfileInput) error {
	fields := map[string]interface{}{}
	if in.FullName != "" {
		fields["fullName"] = in.FullName
	}
	if in.Username != "" {
		fields["username"] = in.Username
	}
	if in.PhoneNumber != "" {
		fields["phoneNumber"] = in.PhoneNumber
	}
	if in.Team != "" {
		fields["team"] = in.Team
	}

	switch {
	case strings.HasPrefix(in.AvatarDataURL, "data:"):
		url, err := d.blobs.UploadDataURL(ctx, fmt.Sprintf("avatars/%s", viewerId), in.AvatarDataURL)
		if err != nil {
			return errors.Wrap(err, "upload avatar")
		}
		fields["avatarUrl"] = url
	case in.RemoveAvatar:
		fields["avatarUrl"] = store.DeleteField{}
	}

	if len(fields) == 0 {
		return nil
	}
	err := d.docs.Update(ctx, store.CollectionUsers, viewerId, fields)
	return errors.Wrap(err, "update profile "+viewerId)
}
