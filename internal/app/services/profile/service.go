package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	domainuser "unilodge/internal/domain/user"
	"unilodge/internal/infra/storage/s3"
)

var ErrUploadsDisabled = errors.New("profile: uploads are not configured")

// Service maintains account profiles: editable fields and the avatar object.
type Service struct {
	Users    domainuser.Repository
	Uploader s3.Uploader
	Logger   *slog.Logger
}

func (s *Service) Update(ctx context.Context, userID string, update domainuser.ProfileUpdate) (*domainuser.User, error) {
	u, err := s.Users.ByID(ctx, domainuser.ID(userID))
	if err != nil {
		return nil, err
	}
	if err := u.ApplyProfileUpdate(update, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UploadAvatar stores the image and points the profile at the new URL.
func (s *Service) UploadAvatar(ctx context.Context, userID, filename string, content io.Reader, contentType string) (*domainuser.User, error) {
	if s.Uploader == nil {
		return nil, ErrUploadsDisabled
	}
	u, err := s.Users.ByID(ctx, domainuser.ID(userID))
	if err != nil {
		return nil, err
	}
	key := s3.AvatarKey(userID, filename)
	url, err := s.Uploader.Upload(ctx, key, content, contentType)
	if err != nil {
		if errors.Is(err, s3.ErrDisabled) {
			return nil, ErrUploadsDisabled
		}
		return nil, err
	}
	u.SetAvatarURL(url, time.Now())
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("avatar updated", "user_id", userID, "key", key)
	}
	return u, nil
}
